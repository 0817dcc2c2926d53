// Package authclient talks to the auth service on behalf of other services.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
)

// ErrRejected means the auth service refused the presented refresh token.
var ErrRejected = errors.New("authclient: refresh token rejected")

const requestTimeout = 5 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient points the client at the auth service root, e.g.
// http://auth:8081. A trailing slash is ignored.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     time.Minute,
			},
		},
	}
}

// RefreshResponse mirrors the JSON body of POST /refresh.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	Role         string `json:"role"`
}

// RefreshTokens rotates the caller's token pair. The auth service reads both
// tokens from cookies, the same way a browser would send them.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*RefreshResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refresh", nil)
	if err != nil {
		return nil, fmt.Errorf("authclient: build refresh request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: refreshToken})
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: accessToken})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authclient: refresh: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrRejected, reason(resp))
	default:
		return nil, fmt.Errorf("authclient: refresh returned status %d: %s", resp.StatusCode, reason(resp))
	}

	var out RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("authclient: decode refresh response: %w", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, errors.New("authclient: refresh response without tokens")
	}
	return &out, nil
}

// reason extracts the message of an httperr body, falling back to the status text.
func reason(resp *http.Response) string {
	var body httperr.Body
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode)
}

// Package payment gates the pending -> paid transition on an external proof
// of settlement.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
)

var ErrNotSettled = errors.New("payment not settled")

type Request struct {
	OrderID   uint                 `json:"order_id"`
	Amount    int64                `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

type Verifier interface {
	Verify(ctx context.Context, req Request) error
}

// ReferenceVerifier accepts any non-empty reference. It is meant for local
// development where no payment gateway is available.
type ReferenceVerifier struct{}

func (ReferenceVerifier) Verify(_ context.Context, req Request) error {
	if strings.TrimSpace(req.Reference) == "" {
		return fmt.Errorf("%w: empty payment reference", ErrNotSettled)
	}
	return nil
}

// HTTPVerifier asks a payment gateway whether a reference settled the
// expected amount.
type HTTPVerifier struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type verifyResponse struct {
	Settled bool  `json:"settled"`
	Amount  int64 `json:"amount"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Reference) == "" {
		return fmt.Errorf("%w: empty payment reference", ErrNotSettled)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: gateway rejected reference with status %d", ErrNotSettled, resp.StatusCode)
	default:
		return fmt.Errorf("payment gateway status: %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.Settled {
		return fmt.Errorf("%w: reference %s", ErrNotSettled, req.Reference)
	}
	if out.Amount != req.Amount {
		return fmt.Errorf("%w: settled %d, expected %d", ErrNotSettled, out.Amount, req.Amount)
	}
	return nil
}

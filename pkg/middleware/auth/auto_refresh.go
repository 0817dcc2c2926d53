package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/authclient"
	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*authclient.RefreshResponse, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret  []byte
	AuthClient Refresher
}

// NewAutoRefreshMiddleware builds the middleware. authClient may be nil, in
// which case expired access tokens are rejected instead of refreshed.
func NewAutoRefreshMiddleware(secret []byte, authClient Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:  secret,
		AuthClient: authClient,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != string(policy.RoleAdmin) {
			return httperr.New(http.StatusForbidden, httperr.KindForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}
			if err := setUserContext(c, claims); err != nil {
				return err
			}
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) || m.AuthClient == nil {
			clearAuthCookies(c)
			return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(tokens.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "refresh token missing")
		}

		ctx := c.Request().Context()
		refreshResp, refErr := m.AuthClient.RefreshTokens(ctx, refreshCookie.Value, accessCookie.Value)
		if refErr != nil {
			logging.FromContext(ctx).Warn("token_refresh_failed", "error", refErr)
			clearAuthCookies(c)
			return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "refresh failed")
		}

		c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, refreshResp.AccessToken, "/", time.Unix(refreshResp.AccessExp, 0)))
		c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, refreshResp.RefreshToken, "/", time.Unix(refreshResp.RefreshExp, 0)))

		newClaims, pErr := tokens.AccessClaimsFromToken(refreshResp.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearAuthCookies(c)
			return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "new access token invalid")
		}

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				return validationErr
			}
		}
		if err := setUserContext(c, newClaims); err != nil {
			return err
		}
		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) error {
	id, err := claims.UserID()
	if err != nil {
		clearAuthCookies(c)
		return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "invalid access token")
	}
	c.Set(userIDKey, id)
	c.Set(roleKey, claims.Role)
	req := c.Request()
	c.SetRequest(req.WithContext(logging.With(req.Context(), "user_id", id, "role", claims.Role)))
	return nil
}

// PrincipalFrom returns the caller identity set by RequireAuth.
func PrincipalFrom(c echo.Context) (policy.Principal, bool) {
	id, ok := c.Get(userIDKey).(uint)
	if !ok || id == 0 {
		return policy.Principal{}, false
	}
	role, _ := c.Get(roleKey).(string)
	return policy.Principal{UserID: id, Role: policy.Role(role)}, true
}

// SetPrincipal stores p the same way RequireAuth does.
func SetPrincipal(c echo.Context, p policy.Principal) {
	c.Set(userIDKey, p.UserID)
	c.Set(roleKey, string(p.Role))
}

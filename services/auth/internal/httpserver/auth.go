package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
	"github.com/Skotchmaster/bookstore/services/auth/internal/service"
	"github.com/Skotchmaster/bookstore/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setTokenCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearTokenCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return httperr.BadRequest("invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return httperr.BadRequest("invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	setTokenCookies(c, res)
	l.Info("login_success", "user_id", res.UserID)

	user, err := h.Svc.Profile(ctx, res.UserID)
	if err != nil {
		return fail(l, "login", err)
	}
	return c.JSON(http.StatusOK, user)
}

// Refresh is called by browsers directly and by other services through
// authclient, so the new pair goes both into cookies and the body.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	ck, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh cookie missing")
		return unauthenticated()
	}

	res, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		clearTokenCookies(c)
		return fail(l, "refresh", err)
	}

	setTokenCookies(c, res)
	l.Info("refresh_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		Role:         res.Role,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.LogOut(ctx, ck.Value); err != nil {
			clearTokenCookies(c)
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return httperr.Internal("cannot revoke refresh token")
		}
	}

	clearTokenCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

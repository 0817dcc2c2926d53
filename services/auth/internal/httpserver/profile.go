package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	"github.com/Skotchmaster/bookstore/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
)

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_get")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated()
	}
	user, err := h.Svc.Profile(ctx, p.UserID)
	if err != nil {
		return fail(l, "profile_get", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_update")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated()
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("profile_update_error", "status", 400, "reason", "invalid body", "error", err)
		return httperr.BadRequest("invalid body")
	}

	user, err := h.Svc.UpdateProfile(ctx, p.UserID, req.Name, req.Email)
	if err != nil {
		return fail(l, "profile_update", err)
	}

	l.Info("profile_update_success", "user_id", p.UserID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_password")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated()
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_error", "status", 400, "reason", "invalid body", "error", err)
		return httperr.BadRequest("invalid body")
	}

	if err := h.Svc.ChangePassword(ctx, p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(l, "change_password", err)
	}

	clearTokenCookies(c)
	l.Info("change_password_success", "user_id", p.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed, please log in again"})
}

func (h *AuthHTTP) UpdateAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_avatar")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated()
	}

	var req transport.UpdateAvatarRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("avatar_update_error", "status", 400, "reason", "invalid body", "error", err)
		return httperr.BadRequest("invalid body")
	}

	user, err := h.Svc.UpdateAvatar(ctx, p.UserID, req.Image)
	if err != nil {
		return fail(l, "avatar_update", err)
	}

	l.Info("avatar_update_success", "user_id", p.UserID)
	return c.JSON(http.StatusOK, user)
}

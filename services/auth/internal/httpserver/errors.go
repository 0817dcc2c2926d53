package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/bookstore/pkg/httperr"
	"github.com/Skotchmaster/bookstore/services/auth/internal/service"
	"github.com/labstack/echo/v4"
)

// fail logs err under op and converts it to the matching HTTP error.
func fail(l *slog.Logger, op string, err error) error {
	var (
		code int
		kind string
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		code, kind = http.StatusBadRequest, httperr.KindValidation
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefreshToken):
		code, kind = http.StatusUnauthorized, httperr.KindUnauthorized
	case errors.Is(err, service.ErrNotFound):
		code, kind = http.StatusNotFound, httperr.KindNotFound
	case errors.Is(err, service.ErrConflict):
		code, kind = http.StatusConflict, httperr.KindConflict
	default:
		l.Error(op+"_error", "status", http.StatusInternalServerError, "error", err)
		return httperr.Internal("internal error")
	}

	l.Warn(op+"_error", "status", code, "reason", kind, "error", err)
	return httperr.New(code, kind, err.Error())
}

func unauthenticated() *echo.HTTPError {
	return httperr.New(http.StatusUnauthorized, httperr.KindUnauthorized, "authentication required")
}

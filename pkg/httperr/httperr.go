// Package httperr builds the JSON error body returned by every service.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	KindValidation         = "validation"
	KindUnauthorized       = "unauthorized"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindPaymentNotVerified = "payment_not_verified"
	KindInternal           = "internal"
)

type Body struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func New(code int, kind, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, Body{Error: kind, Message: msg})
}

func BadRequest(msg string) *echo.HTTPError {
	return New(http.StatusBadRequest, KindValidation, msg)
}

func Internal(msg string) *echo.HTTPError {
	return New(http.StatusInternalServerError, KindInternal, msg)
}

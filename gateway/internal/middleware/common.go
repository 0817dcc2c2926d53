package middleware

import (
	"log/slog"
	"net/http"

	loggingmw "github.com/Skotchmaster/bookstore/pkg/middleware/logging"
	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
)

func Common(logger *slog.Logger, origins []string) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
	}
	if len(origins) > 0 {
		mws = append(mws, ecM.CORSWithConfig(ecM.CORSConfig{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, "X-CSRF-Token", echo.HeaderXRequestID},
			ExposeHeaders:    []string{"X-CSRF-Token"},
			AllowCredentials: true,
		}))
	}
	return mws
}

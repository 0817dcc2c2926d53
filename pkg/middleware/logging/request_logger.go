package loggingmw

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/pkg/logging"
)

// RequestLogger gives every request its own logger and writes one
// "http_request" line when the handler returns. Fields added to the context
// logger downstream, such as user_id from the auth middleware, appear on
// that line too.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := requestID(c)

			l := base.With(
				"request_id", rid,
				"method", req.Method,
				"route", c.Path(),
				"remote_ip", c.RealIP(),
			)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			done := logging.FromContext(c.Request().Context())
			attrs := []any{
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			}
			switch status := c.Response().Status; {
			case status >= 500:
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
				done.Error("http_request", attrs...)
			case status >= 400:
				done.Warn("http_request", attrs...)
			default:
				done.Info("http_request", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

// requestID reuses the caller's X-Request-ID, typically set by the gateway,
// and echoes it back on the response.
func requestID(c echo.Context) string {
	rid := c.Request().Header.Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Response().Header().Set(echo.HeaderXRequestID, rid)
	return rid
}

package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/bookstore/gateway/internal/middleware"
	"github.com/Skotchmaster/bookstore/pkg/middleware/csrf"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthURL  string
	StoreURL string

	Logger         *slog.Logger
	AllowedOrigins []string
	CSRFConfig     csrf.Config
}

// Register mounts the SPA-facing API. Authentication and authorization are
// enforced by the services themselves.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common(d.Logger, d.AllowedOrigins) {
		e.Use(m)
	}

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}
	storeProxy, err := newProxy(d.StoreURL, "/api/v1")
	if err != nil {
		return err
	}

	api := e.Group("/api/v1", csrf.Middleware(d.CSRFConfig))
	api.Any("/auth/*", authProxy)
	api.Any("/*", storeProxy)
	return nil
}

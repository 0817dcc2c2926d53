package httpserver

import (
	"net/http"

	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler *AuthHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// tokens are refreshed explicitly through /refresh here
	authMw := middleware.NewAutoRefreshMiddleware(d.JWTSecret, nil)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.LogOut)

	me := e.Group("/me", authMw.RequireAuth)
	me.GET("", d.AuthHandler.Me)
	me.PUT("", d.AuthHandler.UpdateMe)
	me.PUT("/password", d.AuthHandler.ChangePassword)
	me.PUT("/avatar", d.AuthHandler.UpdateAvatar)
}

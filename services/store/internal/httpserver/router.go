package httpserver

import (
	"net/http"

	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	BookHandler     *BookHTTP
	OrderHandler    *OrderHTTP
	WishlistHandler *WishlistHTTP
	AdminHandler    *AdminHTTP
	JWTSecret       []byte
	// AuthClient refreshes expired access tokens; nil rejects them instead.
	AuthClient middleware.Refresher
	// Ready reports whether the service can take traffic.
	Ready func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	books := e.Group("/books")
	books.GET("", d.BookHandler.ListBooks)
	books.GET("/search", d.BookHandler.SearchBooks)
	books.GET("/:id", d.BookHandler.GetBook)
	books.GET("/:id/reviews", d.BookHandler.ListReviews)
	books.POST("", d.BookHandler.CreateBook, authMW.RequireAdmin)
	books.PUT("/:id", d.BookHandler.UpdateBook, authMW.RequireAdmin)
	books.DELETE("/:id", d.BookHandler.DeleteBook, authMW.RequireAdmin)

	e.POST("/reviews", d.BookHandler.AddReview, authMW.RequireAuth)

	orders := e.Group("/orders")
	orders.POST("/quote", d.OrderHandler.Quote)
	orders.POST("", d.OrderHandler.CreateOrder, authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListMyOrders, authMW.RequireAuth)
	orders.GET("/:id", d.OrderHandler.GetOrder, authMW.RequireAuth)
	orders.POST("/:id/pay", d.OrderHandler.ConfirmPayment, authMW.RequireAuth)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder, authMW.RequireAuth)

	wishlist := e.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.WishlistHandler.List)
	wishlist.POST("", d.WishlistHandler.Add)
	wishlist.DELETE("/:bookId", d.WishlistHandler.Remove)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("/stats", d.AdminHandler.Stats)
	admin.GET("/recent-orders", d.AdminHandler.RecentOrders)
	admin.GET("/orders", d.AdminHandler.ListOrders)
	admin.GET("/invoices", d.AdminHandler.Invoices)
	admin.GET("/purchases", d.AdminHandler.ListPurchases)
	admin.POST("/purchases", d.AdminHandler.RecordPurchase)
	admin.PUT("/orders/:id/status", d.OrderHandler.UpdateStatus)
}

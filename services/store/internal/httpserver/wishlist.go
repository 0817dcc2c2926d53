package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/bookstore/pkg/logging"
	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	"github.com/Skotchmaster/bookstore/services/store/internal/service"
	"github.com/Skotchmaster/bookstore/services/store/internal/transport"
	"github.com/Skotchmaster/bookstore/services/store/internal/util"
	"github.com/labstack/echo/v4"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	p, _ := middleware.PrincipalFrom(c)
	items, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "wishlist_list", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "wishlist_add", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	if err := h.Svc.Add(ctx, p, req.BookID); err != nil {
		return fail(l, "wishlist_add", err)
	}

	l.Info("wishlist_add_success", "book_id", req.BookID)
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	bookID, ok := util.ParseID(c.Param("bookId"))
	if !ok {
		return badID(l, "wishlist_remove", c.Param("bookId"))
	}

	p, _ := middleware.PrincipalFrom(c)
	if err := h.Svc.Remove(ctx, p, bookID); err != nil {
		return fail(l, "wishlist_remove", err)
	}
	return c.NoContent(http.StatusNoContent)
}

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

type AdminHTTP struct {
	Reports *service.ReportService
	Restock *service.RestockService
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	p, _ := middleware.PrincipalFrom(c)
	stats, err := h.Reports.Stats(ctx, p)
	if err != nil {
		return fail(l, "stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHTTP) RecentOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.recent_orders")

	p, _ := middleware.PrincipalFrom(c)
	orders, err := h.Reports.RecentOrders(ctx, p)
	if err != nil {
		return fail(l, "recent_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	p, _ := middleware.PrincipalFrom(c)
	total, orders, err := h.Reports.ListOrders(ctx, p, offset, limit)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(orders, page, offset, limit, total))
}

func (h *AdminHTTP) Invoices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.invoices")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	p, _ := middleware.PrincipalFrom(c)
	total, orders, err := h.Reports.Invoices(ctx, p, offset, limit)
	if err != nil {
		return fail(l, "invoices", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(orders, page, offset, limit, total))
}

func (h *AdminHTTP) ListPurchases(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_purchases")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	p, _ := middleware.PrincipalFrom(c)
	total, purchases, err := h.Restock.ListPurchases(ctx, p, offset, limit)
	if err != nil {
		return fail(l, "list_purchases", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(purchases, page, offset, limit, total))
}

func (h *AdminHTTP) RecordPurchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.record_purchase")

	var req transport.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "record_purchase", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	purchase, err := h.Restock.RecordPurchase(ctx, p, req)
	if err != nil {
		return fail(l, "record_purchase", err)
	}

	l.Info("record_purchase_success", "purchase_id", purchase.ID, "total_items", purchase.TotalItems)
	return c.JSON(http.StatusCreated, purchase)
}

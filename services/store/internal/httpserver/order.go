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

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Quote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.quote")

	var req transport.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "quote", err)
	}

	q, err := h.Svc.Quote(ctx, req)
	if err != nil {
		return fail(l, "quote", err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_order", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	order, err := h.Svc.CreateOrder(ctx, p, req)
	if err != nil {
		return fail(l, "create_order", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	p, _ := middleware.PrincipalFrom(c)
	total, orders, err := h.Svc.ListMyOrders(ctx, p, offset, limit)
	if err != nil {
		return fail(l, "list_my_orders", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(orders, page, offset, limit, total))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "get_order", c.Param("id"))
	}

	p, _ := middleware.PrincipalFrom(c)
	order, err := h.Svc.GetOrder(ctx, p, id)
	if err != nil {
		return fail(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.confirm_payment")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "confirm_payment", c.Param("id"))
	}

	var req transport.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "confirm_payment", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	order, err := h.Svc.ConfirmPayment(ctx, p, id, req.Reference)
	if err != nil {
		return fail(l, "confirm_payment", err)
	}

	l.Info("confirm_payment_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "cancel_order", c.Param("id"))
	}

	p, _ := middleware.PrincipalFrom(c)
	order, err := h.Svc.CancelOrder(ctx, p, id)
	if err != nil {
		return fail(l, "cancel_order", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "update_status", c.Param("id"))
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_status", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	order, err := h.Svc.UpdateStatus(ctx, p, id, req.Status)
	if err != nil {
		return fail(l, "update_status", err)
	}

	l.Info("update_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

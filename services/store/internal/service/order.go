package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/payment"
	"github.com/Skotchmaster/bookstore/services/store/internal/pricing"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/Skotchmaster/bookstore/services/store/internal/transport"
)

type OrderService struct {
	base
	Payments payment.Verifier
	Now      func() time.Time
}

func NewOrderService(store repo.Store, pub events.Publisher, verifier payment.Verifier) *OrderService {
	return &OrderService{
		base:     base{Store: store, Events: pub},
		Payments: verifier,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// maxLineQuantity bounds a single order line.
const maxLineQuantity = 1000

func validateItems(items []transport.OrderItemRequest) ([]uint, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if it.BookID == 0 {
			return nil, fmt.Errorf("%w: book_id required", ErrValidation)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if it.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity must be <= %d", ErrValidation, maxLineQuantity)
		}
		if seen[it.BookID] {
			return nil, fmt.Errorf("%w: book %d listed twice", ErrValidation, it.BookID)
		}
		seen[it.BookID] = true
		ids = append(ids, it.BookID)
	}
	return ids, nil
}

// priceLines resolves every item against the catalog and returns the
// pricing lines and the order items with their unit price snapshot.
func priceLines(ctx context.Context, store repo.Catalog, items []transport.OrderItemRequest) ([]pricing.Line, []models.OrderItem, error) {
	ids, err := validateItems(items)
	if err != nil {
		return nil, nil, err
	}
	books, err := store.BooksByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		book, ok := books[it.BookID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: book %d", ErrNotFound, it.BookID)
		}
		unit := pricing.UnitPrice(book.Price, book.Discount)
		if it.Price != 0 && it.Price != unit {
			return nil, nil, fmt.Errorf("%w: price of book %d changed to %d", ErrValidation, it.BookID, unit)
		}
		lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: unit})
		orderItems = append(orderItems, models.OrderItem{BookID: it.BookID, Quantity: it.Quantity, Price: unit})
	}
	return lines, orderItems, nil
}

func (s *OrderService) Quote(ctx context.Context, req transport.QuoteRequest) (pricing.Quote, error) {
	method, err := domain.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		return pricing.Quote{}, err
	}
	lines, _, err := priceLines(ctx, s.Store, req.Items)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Compute(lines, method)
}

// CreateOrder inserts the order, its items and the stock decrements in one
// transaction. Totals and unit prices are frozen at this point.
func (s *OrderService) CreateOrder(ctx context.Context, p policy.Principal, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return nil, err
	}

	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, fmt.Errorf("%w: shipping_address required", ErrValidation)
	}
	payMethod, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	shipMethod, err := domain.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.Store.InTx(ctx, func(tx repo.Store) error {
		lines, items, err := priceLines(ctx, tx, req.Items)
		if err != nil {
			return err
		}
		quote, err := pricing.Compute(lines, shipMethod)
		if err != nil {
			return err
		}
		if req.TotalAmount != nil && *req.TotalAmount != quote.Total {
			return fmt.Errorf("%w: total_amount %d does not match %d", ErrValidation, *req.TotalAmount, quote.Total)
		}

		order = &models.Order{
			UserID:          p.UserID,
			TotalAmount:     quote.Total,
			Status:          domain.StatusPending,
			PaymentMethod:   payMethod,
			ShippingMethod:  shipMethod,
			ShippingAddress: address,
			Items:           items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, it := range items {
			if err := tx.AdjustStock(ctx, it.BookID, -it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOrder(ctx, messages.OrderCreated, order, "", p.UserID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, p policy.Principal, id uint) (*models.Order, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return nil, err
	}
	order, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.Owner, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, p policy.Principal, offset, limit int) (int64, []models.Order, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return 0, nil, err
	}
	return s.Store.ListOrdersByUser(ctx, p.UserID, offset, limit)
}

// ConfirmPayment moves a pending order to paid once the verifier accepts
// the proof of payment.
func (s *OrderService) ConfirmPayment(ctx context.Context, p policy.Principal, id uint, reference string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.confirm_payment")

	order, err := s.GetOrder(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, id, order.Status)
	}

	reference = strings.TrimSpace(reference)
	err = s.Payments.Verify(ctx, payment.Request{
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		Method:    order.PaymentMethod,
		Reference: reference,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotSettled) {
			return nil, fmt.Errorf("%w: %v", ErrPaymentNotVerified, err)
		}
		l.Error("verify_error", "order_id", id, "error", err)
		return nil, err
	}

	paidAt := s.Now()
	if err := s.Store.CompareAndSetStatus(ctx, id, domain.StatusPending, domain.StatusPaid, map[string]any{
		"payment_reference": reference,
		"paid_at":           paidAt,
	}); err != nil {
		return nil, err
	}

	order.Status = domain.StatusPaid
	order.PaymentReference = reference
	order.PaidAt = &paidAt

	s.publishOrder(ctx, messages.OrderPaid, order, domain.StatusPending, p.UserID)
	return order, nil
}

// UpdateStatus applies an admin fulfillment transition.
func (s *OrderService) UpdateStatus(ctx context.Context, p policy.Principal, id uint, status string) (*models.Order, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return nil, err
	}
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		order *models.Order
		from  domain.OrderStatus
	)
	err = s.Store.InTx(ctx, func(tx repo.Store) error {
		var err error
		order, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := domain.CheckFulfillment(from, to); err != nil {
			return err
		}
		return transition(ctx, tx, order, to)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrder(ctx, messages.OrderStatusChanged, order, from, p.UserID)
	return order, nil
}

// CancelOrder lets the owner cancel an order that has not been paid yet.
func (s *OrderService) CancelOrder(ctx context.Context, p policy.Principal, id uint) (*models.Order, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.Store.InTx(ctx, func(tx repo.Store) error {
		var err error
		order, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(p, policy.Owner, order.UserID); err != nil {
			return err
		}
		if order.Status != domain.StatusPending {
			return fmt.Errorf("%w: only pending orders can be cancelled, order %d is %s", ErrInvalidTransition, id, order.Status)
		}
		return transition(ctx, tx, order, domain.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrder(ctx, messages.OrderStatusChanged, order, domain.StatusPending, p.UserID)
	return order, nil
}

// transition writes order.Status -> to and, for cancellations, puts the
// ordered quantities back on the shelf.
func transition(ctx context.Context, tx repo.Store, order *models.Order, to domain.OrderStatus) error {
	if err := tx.CompareAndSetStatus(ctx, order.ID, order.Status, to, nil); err != nil {
		return err
	}
	if to == domain.StatusCancelled {
		for _, it := range order.Items {
			if err := tx.AdjustStock(ctx, it.BookID, it.Quantity); err != nil {
				return err
			}
		}
	}
	order.Status = to
	return nil
}

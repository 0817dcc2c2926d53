// Package service holds the store's use cases. Every state-mutating
// operation authorizes the caller first and publishes its event only after
// the transaction commits.
package service

import (
	"context"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
)

// Re-exported so handlers only depend on this package for error kinds.
var (
	ErrValidation         = domain.ErrValidation
	ErrNotFound           = domain.ErrNotFound
	ErrConflict           = domain.ErrConflict
	ErrBookInUse          = domain.ErrBookInUse
	ErrInsufficientStock  = domain.ErrInsufficientStock
	ErrInvalidTransition  = domain.ErrInvalidTransition
	ErrPaymentNotVerified = domain.ErrPaymentNotVerified
)

type base struct {
	Store  repo.Store
	Events events.Publisher
}

// publish never fails the caller: the state change is already committed.
func (b *base) publish(ctx context.Context, topic, key string, event any) {
	if b.Events == nil {
		return
	}
	if err := b.Events.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_error", "topic", topic, "key", key, "error", err)
	}
}

func (b *base) publishOrder(ctx context.Context, typ string, o *models.Order, from domain.OrderStatus, actor uint) {
	b.publish(ctx, events.TopicOrders, messages.Key(o.ID), messages.OrderEvent{
		Type:        typ,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		From:        from,
		TotalAmount: o.TotalAmount,
		ActorID:     actor,
	})
}

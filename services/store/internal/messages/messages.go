// Package messages defines the payloads the store publishes to Kafka.
package messages

import (
	"strconv"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
)

const (
	BookCreated       = "book_created"
	BookUpdated       = "book_updated"
	BookDeleted       = "book_deleted"
	BookRatingChanged = "book_rating_changed"

	OrderCreated       = "order_created"
	OrderPaid          = "order_paid"
	OrderStatusChanged = "order_status_changed"

	PurchaseRecorded = "purchase_recorded"

	ReviewAdded = "review_added"
)

type BookEvent struct {
	Type   string       `json:"type"`
	BookID uint         `json:"book_id"`
	Book   *models.Book `json:"book,omitempty"`
}

type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	UserID      uint               `json:"user_id"`
	Status      domain.OrderStatus `json:"status"`
	From        domain.OrderStatus `json:"from,omitempty"`
	TotalAmount int64              `json:"total_amount"`
	ActorID     uint               `json:"actor_id"`
}

type PurchaseEvent struct {
	Type       string `json:"type"`
	PurchaseID uint   `json:"purchase_id"`
	Supplier   string `json:"supplier"`
	TotalItems int    `json:"total_items"`
	TotalCost  int64  `json:"total_cost"`
}

type ReviewEvent struct {
	Type     string  `json:"type"`
	ReviewID uint    `json:"review_id"`
	BookID   uint    `json:"book_id"`
	UserID   uint    `json:"user_id"`
	Rating   int     `json:"rating"`
	NewMean  float64 `json:"new_mean"`
}

// Key partitions events by aggregate id.
func Key(id uint) string { return strconv.FormatUint(uint64(id), 10) }

package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var AllStatuses = []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

// SettledStatuses are the statuses of orders whose payment was confirmed.
var SettledStatuses = []OrderStatus{StatusPaid, StatusShipped, StatusDelivered}

// ParseStatus accepts only the closed set of order statuses.
func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is an edge of the order lifecycle.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case StatusPaid:
		return from == StatusPending
	case StatusShipped:
		return from == StatusPaid
	case StatusDelivered:
		return from == StatusShipped
	case StatusCancelled:
		return true
	default:
		return false
	}
}

// CheckFulfillment validates an admin-requested transition. Payment is not
// an admin transition: pending -> paid only happens through payment
// confirmation.
func CheckFulfillment(from, to OrderStatus) error {
	if to == StatusPaid || to == StatusPending {
		return fmt.Errorf("%w: status %q cannot be set directly", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409

	ErrBookInUse         = fmt.Errorf("%w: cannot delete book: referenced by past orders", ErrConflict)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)

	ErrPaymentNotVerified = errors.New("payment not verified") // 402
)

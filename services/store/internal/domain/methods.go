package domain

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentBank PaymentMethod = "bank"
	PaymentQRIS PaymentMethod = "qris"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentBank, PaymentQRIS:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, s)
	}
}

type ShippingMethod string

const (
	ShippingRegular ShippingMethod = "regular"
	ShippingExpress ShippingMethod = "express"
)

// ParseShippingMethod defaults an empty value to regular shipping.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch m := ShippingMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ShippingRegular, nil
	case ShippingRegular, ShippingExpress:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown shipping method %q", ErrValidation, s)
	}
}

// Package pricing computes checkout quotes. All amounts are integers in the
// smallest currency unit; fractional intermediate values round half up.
package pricing

import (
	"fmt"
	"math"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	taxRate   = decimal.RequireFromString("0.11")
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

var shippingCost = map[domain.ShippingMethod]int64{
	domain.ShippingRegular: 15000,
	domain.ShippingExpress: 25000,
}

type Line struct {
	Quantity  int
	UnitPrice int64
}

type Quote struct {
	Subtotal int64                 `json:"subtotal"`
	Tax      int64                 `json:"tax"`
	Shipping int64                 `json:"shipping"`
	Total    int64                 `json:"total"`
	Method   domain.ShippingMethod `json:"shipping_method"`
}

// UnitPrice applies a percentage discount to a list price.
func UnitPrice(price int64, discount int) int64 {
	if discount <= 0 {
		return price
	}
	off := decimal.NewFromInt(price).Mul(decimal.NewFromInt(int64(discount))).Div(decimal.NewFromInt(100))
	return decimal.NewFromInt(price).Sub(off).Round(0).IntPart()
}

func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}

func Shipping(m domain.ShippingMethod) (int64, error) {
	cost, ok := shippingCost[m]
	if !ok {
		return 0, fmt.Errorf("%w: unknown shipping method %q", domain.ErrValidation, m)
	}
	return cost, nil
}

func Compute(lines []Line, m domain.ShippingMethod) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, fmt.Errorf("%w: items required", domain.ErrValidation)
	}

	subtotal := decimal.Zero
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return Quote{}, fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
		}
		if ln.UnitPrice < 0 {
			return Quote{}, fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
		}
		subtotal = subtotal.Add(decimal.NewFromInt(int64(ln.Quantity)).Mul(decimal.NewFromInt(ln.UnitPrice)))
	}

	shipping, err := Shipping(m)
	if err != nil {
		return Quote{}, err
	}
	if subtotal.GreaterThan(maxAmount) {
		return Quote{}, fmt.Errorf("%w: order total is too large", domain.ErrValidation)
	}
	tax := Tax(subtotal.IntPart())
	total := subtotal.Add(decimal.NewFromInt(tax)).Add(decimal.NewFromInt(shipping))
	if total.GreaterThan(maxAmount) {
		return Quote{}, fmt.Errorf("%w: order total is too large", domain.ErrValidation)
	}

	return Quote{
		Subtotal: subtotal.IntPart(),
		Tax:      tax,
		Shipping: shipping,
		Total:    total.IntPart(),
		Method:   m,
	}, nil
}

// Package pricing holds the price arithmetic shared by the catalog, the
// product import and order lines. Margins are always fractions (0.4 = 40%);
// percentages typed by a person are converted once with FractionFromPercent.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeCost   = errors.New("cost_price must be >= 0")
	ErrNegativeMargin = errors.New("margin must be >= 0")
)

var hundred = decimal.NewFromInt(100)

// SalePrice returns cost + cost*marginFraction without rounding.
func SalePrice(cost, marginFraction decimal.Decimal) decimal.Decimal {
	return cost.Add(cost.Mul(marginFraction))
}

// ValidateInputs checks the SalePrice preconditions.
func ValidateInputs(cost, marginFraction decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrNegativeCost
	}
	if marginFraction.IsNegative() {
		return ErrNegativeMargin
	}
	return nil
}

func FractionFromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// LineSubtotal: 量り売りは送られてきた金額がそのまま小計
func LineSubtotal(unitPrice decimal.Decimal, quantity int64, isFractional bool) decimal.Decimal {
	if isFractional {
		return unitPrice
	}
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// FractionalPrice prices a custom amount in gr/ml from a price per 100 units.
func FractionalPrice(pricePer100 decimal.Decimal, customQuantity int64) decimal.Decimal {
	return pricePer100.Mul(decimal.NewFromInt(customQuantity)).Div(hundred)
}

// WithinTolerance reports |got-want| <= want*tolerance.
func WithinTolerance(got, want, tolerance decimal.Decimal) bool {
	allowed := want.Abs().Mul(tolerance)
	return got.Sub(want).Abs().LessThanOrEqual(allowed)
}

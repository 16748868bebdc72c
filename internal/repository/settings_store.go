package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DBの外に置く設定値（送料）。未設定はErrNotFound
type SettingsStore interface {
	GetShippingCost(ctx context.Context) (decimal.Decimal, error)
	SetShippingCost(ctx context.Context, value decimal.Decimal) error
}

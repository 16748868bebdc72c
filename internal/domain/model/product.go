package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsAvailable bool   `gorm:"not null;default:true;index" json:"is_available"`

	//原価と利益率（0.4 = 40%）から販売価格を出す
	CostPrice      decimal.Decimal `gorm:"type:numeric;not null" json:"cost_price"`
	MarginFraction decimal.Decimal `gorm:"type:numeric;not null" json:"margin_fraction"`
	SalePrice      decimal.Decimal `gorm:"type:numeric;not null;index" json:"sale_price"`

	//量り売り商品の100gr/ml あたりの価格
	FractionalPricePer100 decimal.NullDecimal `gorm:"type:numeric" json:"fractional_price_per_100"`
	Unit                  string              `gorm:"type:varchar(20)" json:"unit"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

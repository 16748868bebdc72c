package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文時点の商品情報のスナップショット。
// ProductIDは参照だけ（商品が消えても明細は残る）。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//注文削除で明細も消える
	Order *Order `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	ProductID   int64           `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	Quantity    int64           `gorm:"not null" json:"quantity"`

	//量り売り（gr / ml）
	IsFractional   bool   `gorm:"not null;default:false" json:"is_fractional"`
	CustomQuantity *int64 `json:"custom_quantity"`
	Unit           string `gorm:"type:varchar(20)" json:"unit"`

	Subtotal  decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

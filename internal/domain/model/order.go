package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryMode string

const (
	DeliveryModeShip   DeliveryMode = "ship"
	DeliveryModePickup DeliveryMode = "pickup"
)

func (m DeliveryMode) Valid() bool {
	return m == DeliveryModeShip || m == DeliveryModePickup
}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	//店頭受け取りは全支払い方法が使えるのでこの値で固定
	PaymentModeInStore PaymentMode = "in_store"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 許可される遷移。終端（delivered / cancelled）からは動かせない
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	DeliveryMode DeliveryMode `gorm:"type:varchar(20);not null" json:"delivery_mode"`

	//配送時のみ必須
	DeliveryPhone string `gorm:"type:varchar(30)" json:"delivery_phone"`
	Street        string `gorm:"type:varchar(200)" json:"street"`
	StreetNumber  string `gorm:"type:varchar(20)" json:"street_number"`
	CrossStreets  string `gorm:"type:varchar(200)" json:"cross_streets"`

	PaymentMode PaymentMode `gorm:"type:varchar(20);not null" json:"payment_mode"`

	Subtotal     decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:numeric;not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

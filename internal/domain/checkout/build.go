package checkout

import (
	"time"

	"storeadmin/internal/domain/model"
	"storeadmin/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// 注文明細の入力。名前と価格はクライアントが送った値をスナップショットにする
type LineInput struct {
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int64           `json:"quantity"`
	IsFractional   bool            `json:"is_fractional"`
	CustomQuantity *int64          `json:"custom_quantity"`
	Unit           string          `json:"unit"`
}

// POST /orders の本文
type Request struct {
	DeliveryMode  model.DeliveryMode `json:"delivery_mode"`
	PaymentMode   model.PaymentMode  `json:"payment_mode"`
	DeliveryPhone string             `json:"delivery_phone"`
	Street        string             `json:"street"`
	StreetNumber  string             `json:"street_number"`
	CrossStreets  string             `json:"cross_streets"`
	Items         []LineInput        `json:"items"`
}

// Build turns a validated request into the order row and its line items.
// Nothing is persisted here; ids are left zero.
func Build(req Request, ownerID int64, configuredShipping decimal.Decimal, now time.Time) (model.Order, []model.OrderItem) {
	items := make([]model.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, in := range req.Items {
		line := pricing.LineSubtotal(in.UnitPrice, in.Quantity, in.IsFractional)
		subtotal = subtotal.Add(line)

		items = append(items, model.OrderItem{
			ProductID:      in.ProductID,
			ProductName:    in.ProductName,
			UnitPrice:      in.UnitPrice,
			Quantity:       in.Quantity,
			IsFractional:   in.IsFractional,
			CustomQuantity: in.CustomQuantity,
			Unit:           in.Unit,
			Subtotal:       line,
			CreatedAt:      now,
		})
	}

	shipping := decimal.Zero
	payment := req.PaymentMode
	if req.DeliveryMode == model.DeliveryModeShip {
		shipping = configuredShipping
	} else {
		payment = model.PaymentModeInStore
	}

	order := model.Order{
		UserID:        ownerID,
		DeliveryMode:  req.DeliveryMode,
		DeliveryPhone: req.DeliveryPhone,
		Street:        req.Street,
		StreetNumber:  req.StreetNumber,
		CrossStreets:  req.CrossStreets,
		PaymentMode:   payment,
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Total:         subtotal.Add(shipping),
		Status:        model.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return order, items
}

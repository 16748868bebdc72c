package checkout

import (
	"testing"
	"time"

	"storeadmin/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 { return &v }

func shipRequest() Request {
	return Request{
		DeliveryMode:  model.DeliveryModeShip,
		PaymentMode:   model.PaymentModeCash,
		DeliveryPhone: "555-1234",
		Street:        "Main",
		StreetNumber:  "123",
		CrossStreets:  "1st & 2nd",
		Items: []LineInput{
			{ProductID: 1, ProductName: "Rice", UnitPrice: dec("10"), Quantity: 3},
			{ProductID: 2, ProductName: "Olives", UnitPrice: dec("5"), Quantity: 1, IsFractional: true, CustomQuantity: int64Ptr(250), Unit: "gr"},
		},
	}
}

func TestBuild_ShipOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	order, items := Build(shipRequest(), 42, dec("500"), now)

	assert.Equal(t, int64(42), order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentModeCash, order.PaymentMode)
	assert.True(t, dec("35").Equal(order.Subtotal), "subtotal=%s", order.Subtotal)
	assert.True(t, dec("500").Equal(order.ShippingCost))
	assert.True(t, dec("535").Equal(order.Total), "total=%s", order.Total)
	assert.Equal(t, now, order.CreatedAt)

	require.Len(t, items, 2)
	assert.True(t, dec("30").Equal(items[0].Subtotal))
	assert.True(t, dec("5").Equal(items[1].Subtotal))
	assert.Equal(t, "Rice", items[0].ProductName)
	assert.Equal(t, "gr", items[1].Unit)
	require.NotNil(t, items[1].CustomQuantity)
	assert.Equal(t, int64(250), *items[1].CustomQuantity)
}

func TestBuild_PickupHasNoShippingAndInStorePayment(t *testing.T) {
	req := shipRequest()
	req.DeliveryMode = model.DeliveryModePickup
	req.PaymentMode = model.PaymentModeBankTransfer

	order, _ := Build(req, 7, dec("500"), time.Now())

	assert.True(t, order.ShippingCost.IsZero())
	assert.True(t, order.Total.Equal(order.Subtotal))
	assert.Equal(t, model.PaymentModeInStore, order.PaymentMode)
}

func TestBuild_TotalsAddUp(t *testing.T) {
	req := Request{
		DeliveryMode: model.DeliveryModeShip,
		PaymentMode:  model.PaymentModeBankTransfer,
		Items: []LineInput{
			{ProductID: 1, UnitPrice: dec("0.10"), Quantity: 3},
			{ProductID: 2, UnitPrice: dec("0.20"), Quantity: 1},
			{ProductID: 3, UnitPrice: dec("12.345"), Quantity: 2},
		},
	}

	order, items := Build(req, 1, dec("499.99"), time.Now())

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, sum.Equal(order.Subtotal))
	assert.True(t, dec("25.19").Equal(order.Subtotal), "subtotal=%s", order.Subtotal)
	assert.True(t, order.Subtotal.Add(order.ShippingCost).Equal(order.Total))
}

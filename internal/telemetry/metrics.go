package telemetry

import (
	"context"

	"storeadmin/internal/domain/model"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderMetrics records order lifecycle counters. A nil *OrderMetrics is a no-op.
type OrderMetrics struct {
	created       metric.Int64Counter
	totalAmount   metric.Float64Histogram
	statusChanges metric.Int64Counter
}

func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders created"))
	if err != nil {
		return nil, err
	}
	totalAmount, err := meter.Float64Histogram("order_total_amount",
		metric.WithDescription("Order total including shipping"))
	if err != nil {
		return nil, err
	}
	statusChanges, err := meter.Int64Counter("order_status_changes_total",
		metric.WithDescription("Order status transitions"))
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{
		created:       created,
		totalAmount:   totalAmount,
		statusChanges: statusChanges,
	}, nil
}

func (m *OrderMetrics) OrderCreated(ctx context.Context, mode model.DeliveryMode, total decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("delivery_mode", string(mode)))
	m.created.Add(ctx, 1, attrs)
	//histogramはfloatで十分
	m.totalAmount.Record(ctx, total.InexactFloat64(), attrs)
}

func (m *OrderMetrics) StatusChanged(ctx context.Context, from, to model.OrderStatus) {
	if m == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

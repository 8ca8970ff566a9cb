package order

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the checkout counters. A nil *Metrics is a no-op, so wiring
// telemetry stays optional in tests and tools.
type Metrics struct {
	placed  metric.Int64Counter
	revenue metric.Float64Counter
}

// NewMetrics registers the checkout instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	placed, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders successfully placed"),
	)
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64Counter("storefront.orders.revenue",
		metric.WithDescription("Grand total of placed orders"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{placed: placed, revenue: revenue}, nil
}

func (m *Metrics) recordPlaced(ctx context.Context, o *Order) {
	if m == nil {
		return
	}
	discounted := attribute.Bool("discounted", o.DiscountCode != "")
	m.placed.Add(ctx, 1, metric.WithAttributes(discounted))
	m.revenue.Add(ctx, o.GrandTotal.InexactFloat64(), metric.WithAttributes(discounted))
}

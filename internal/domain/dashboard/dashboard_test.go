package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	counts    product.StockCounts
	countsErr error
}

func (m *mockProductRepo) List(_ context.Context, _ product.ListFilter) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, _ string) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }

func (m *mockProductRepo) Update(_ context.Context, _ string, _ product.Update) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (m *mockProductRepo) Delete(_ context.Context, _ string) error { return nil }

func (m *mockProductRepo) CountByStock(_ context.Context) (product.StockCounts, error) {
	return m.counts, m.countsErr
}

func (m *mockProductRepo) Categories(_ context.Context) ([]string, error) { return nil, nil }

type mockOrderRepo struct {
	counts    order.StatusCounts
	revenue   decimal.Decimal
	recent    []order.Order
	recentCap int
}

func (m *mockOrderRepo) Create(_ context.Context, _ *order.Order) error { return nil }

func (m *mockOrderRepo) GetByID(_ context.Context, _ string) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (m *mockOrderRepo) List(_ context.Context, _ order.ListFilter) (order.Page, error) {
	return order.Page{}, nil
}

func (m *mockOrderRepo) Update(_ context.Context, _ *order.Order) error { return nil }
func (m *mockOrderRepo) Delete(_ context.Context, _ string) error       { return nil }

func (m *mockOrderRepo) CountByStatus(_ context.Context) (order.StatusCounts, error) {
	return m.counts, nil
}

func (m *mockOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	return m.revenue, nil
}

func (m *mockOrderRepo) ListRecent(_ context.Context, n int) ([]order.Order, error) {
	m.recentCap = n
	if len(m.recent) > n {
		return m.recent[:n], nil
	}
	return m.recent, nil
}

// --- Tests ---

func TestStats_EmptyStores(t *testing.T) {
	svc := NewService(&mockProductRepo{}, &mockOrderRepo{revenue: decimal.Zero}, 0)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Products.Total)
	assert.Zero(t, stats.Products.InStock)
	assert.Zero(t, stats.Products.OutOfStock)
	assert.Zero(t, stats.Orders.Total)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.NotNil(t, stats.RecentOrders)
	assert.Empty(t, stats.RecentOrders)
}

func TestStats_Rollup(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	orders := &mockOrderRepo{
		counts:  order.StatusCounts{Total: 7, Placed: 3, Processing: 2, Delivered: 2},
		revenue: decimal.RequireFromString("41800"),
		recent: []order.Order{
			{
				ID:           "o2",
				OrderNumber:  "ORD-000002",
				CustomerName: "Grace Hopper",
				GrandTotal:   decimal.RequireFromString("10450"),
				Status:       order.StatusPlaced,
				Items:        []order.Item{{ProductID: "p1"}, {ProductID: "p2"}},
				CreatedAt:    created,
			},
		},
	}
	products := &mockProductRepo{counts: product.StockCounts{Total: 12, InStock: 9, OutOfStock: 3}}

	svc := NewService(products, orders, 0)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.Products.Total)
	assert.Equal(t, 3, stats.Orders.Placed)
	assert.True(t, decimal.RequireFromString("41800").Equal(stats.TotalRevenue))
	assert.Equal(t, DefaultRecentLimit, orders.recentCap, "zero limit falls back to default")

	require.Len(t, stats.RecentOrders, 1)
	ro := stats.RecentOrders[0]
	assert.Equal(t, "ORD-000002", ro.OrderNumber)
	assert.Equal(t, 2, ro.ItemCount)
	assert.Equal(t, created, ro.CreatedAt)
}

func TestStats_QueryFailure(t *testing.T) {
	products := &mockProductRepo{countsErr: errors.New("db down")}
	svc := NewService(products, &mockOrderRepo{}, 5)

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
}

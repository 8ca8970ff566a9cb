// Package dashboard aggregates read-only rollups over the catalog and
// order stores for the admin panel. It never mutates anything; empty
// stores produce zero-valued stats, not errors.
package dashboard

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

// DefaultRecentLimit is how many recent orders Stats returns when the
// configured limit is zero.
const DefaultRecentLimit = 5

// RecentOrder is a dashboard row for a recently created order.
type RecentOrder struct {
	ID           string
	OrderNumber  string
	CustomerName string
	GrandTotal   decimal.Decimal
	Status       order.Status
	ItemCount    int
	CreatedAt    time.Time
}

// Stats is the full dashboard payload.
type Stats struct {
	Products     product.StockCounts
	Orders       order.StatusCounts
	TotalRevenue decimal.Decimal
	RecentOrders []RecentOrder
}

// Service computes dashboard statistics.
type Service struct {
	products    product.Repository
	orders      order.Repository
	recentLimit int
}

// NewService creates a dashboard Service. recentLimit <= 0 falls back to
// DefaultRecentLimit.
func NewService(products product.Repository, orders order.Repository, recentLimit int) *Service {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Service{products: products, orders: orders, recentLimit: recentLimit}
}

// Stats fans the independent rollup queries out concurrently and assembles
// the result. Any single query failure fails the whole aggregation.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats  Stats
		recent []order.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.products.CountByStock(ctx)
		if err != nil {
			return errors.Wrap(err, "count products")
		}
		stats.Products = counts
		return nil
	})
	g.Go(func() error {
		counts, err := s.orders.CountByStatus(ctx)
		if err != nil {
			return errors.Wrap(err, "count orders")
		}
		stats.Orders = counts
		return nil
	})
	g.Go(func() error {
		revenue, err := s.orders.TotalRevenue(ctx)
		if err != nil {
			return errors.Wrap(err, "total revenue")
		}
		stats.TotalRevenue = revenue
		return nil
	})
	g.Go(func() error {
		orders, err := s.orders.ListRecent(ctx, s.recentLimit)
		if err != nil {
			return errors.Wrap(err, "recent orders")
		}
		recent = orders
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RecentOrders = make([]RecentOrder, len(recent))
	for i, o := range recent {
		stats.RecentOrders[i] = RecentOrder{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			GrandTotal:   o.GrandTotal,
			Status:       o.Status,
			ItemCount:    len(o.Items),
			CreatedAt:    o.CreatedAt,
		}
	}
	return &stats, nil
}

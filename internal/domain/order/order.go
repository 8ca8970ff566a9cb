package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// StatusChange is one entry in an order's append-only status history.
type StatusChange struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Item is a snapshot of a product at purchase time. Later catalog edits
// never alter historical orders.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// BillingAddress holds the optional billing details captured at checkout.
type BillingAddress struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Order is a placed customer order. Totals are computed once at creation
// and never recomputed; only status transitions mutate a persisted order.
type Order struct {
	ID             string
	OrderNumber    string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	BillingAddress *BillingAddress
	PaymentMethod  string
	Items          []Item
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	DiscountCode   string
	Tax            decimal.Decimal
	GrandTotal     decimal.Decimal
	Status         Status
	StatusHistory  []StatusChange
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status        Status
	CustomerEmail string
	Page          int
	Limit         int
	SortBy        string
	Descending    bool
}

// Page is one page of orders plus pagination totals.
type Page struct {
	Orders []Order
	Total  int
	Page   int
	Pages  int
	Limit  int
}

// StatusCounts holds order counts split by lifecycle status.
type StatusCounts struct {
	Total      int
	Placed     int
	Processing int
	Delivered  int
}

// Repository defines persistence operations for orders. Create assigns the
// human-readable order number from the store's atomic sequence.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListFilter) (Page, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (StatusCounts, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	ListRecent(ctx context.Context, n int) ([]Order, error)
}

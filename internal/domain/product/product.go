package product

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ValidationError reports a missing or malformed product field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Product represents a catalog item available for purchase. Stock is a
// manually toggled flag; orders never decrement it.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Category    string
	Image       string
	Description string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Update holds a partial product edit. Nil fields are left unchanged.
type Update struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	Description *string
	InStock     *bool
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// StockCounts holds catalog counts split by the in-stock flag.
type StockCounts struct {
	Total      int
	InStock    int
	OutOfStock int
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, upd Update) (*Product, error)
	Delete(ctx context.Context, id string) error
	CountByStock(ctx context.Context) (StockCounts, error)
	Categories(ctx context.Context) ([]string, error)
}

// Validate checks the required fields for product creation.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if strings.TrimSpace(p.Category) == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if strings.TrimSpace(p.Image) == "" {
		return &ValidationError{Field: "image", Message: "image is required"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/product"
)

const (
	productColumns = `id, name, price, category, image, description, in_stock, created_at, updated_at`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (id, name, price, category, image, description, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	countProductsByStockSQL = `SELECT count(*),
		count(*) FILTER (WHERE in_stock),
		count(*) FILTER (WHERE NOT in_stock)
		FROM products`

	listCategoriesSQL = `SELECT DISTINCT category FROM products ORDER BY category`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns catalog products matching the filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + q + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.MinPrice != nil {
		where = append(where, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, "price <= "+arg(*filter.MaxPrice))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Price, p.Category, p.Image, p.Description, p.InStock,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update applies a partial edit and returns the updated product. Nil fields
// in upd are left untouched. Returns product.ErrNotFound for unknown IDs.
func (r *ProductRepository) Update(ctx context.Context, id string, upd product.Update) (*product.Product, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.Image != nil {
		set("image", *upd.Image)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.InStock != nil {
		set("in_stock", *upd.InStock)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("updating product %q: %w", id, err)
	}
	return &p, nil
}

// Delete removes a product. Returns product.ErrNotFound for unknown IDs.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// CountByStock returns catalog counts split by the in-stock flag.
func (r *ProductRepository) CountByStock(ctx context.Context) (product.StockCounts, error) {
	var c product.StockCounts
	err := r.pool.QueryRow(ctx, countProductsByStockSQL).Scan(&c.Total, &c.InStock, &c.OutOfStock)
	if err != nil {
		return product.StockCounts{}, fmt.Errorf("counting products: %w", err)
	}
	return c, nil
}

// Categories returns the distinct product categories in alphabetical order.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var c string
		err := row.Scan(&c)
		return c, err
	})
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(
		&p.ID, &p.Name, &price, &p.Category, &p.Image, &p.Description,
		&p.InStock, &p.CreatedAt, &p.UpdatedAt,
	)
	p.Price = price
	return p, err
}

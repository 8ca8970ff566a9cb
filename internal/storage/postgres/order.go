package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/order"
)

const (
	orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
		billing_address, payment_method, items, subtotal, discount, discount_code,
		tax, grand_total, status, status_history, created_at, updated_at`

	nextOrderNumberSQL = `SELECT nextval('order_numbers')`

	createOrderSQL = `INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
		billing_address, payment_method, items, subtotal, discount, discount_code,
		tax, grand_total, status, status_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	updateOrderSQL = `UPDATE orders SET status = $2, status_history = $3, updated_at = $4 WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	countOrdersByStatusSQL = `SELECT count(*),
		count(*) FILTER (WHERE status = 'Placed'),
		count(*) FILTER (WHERE status = 'Processing'),
		count(*) FILTER (WHERE status = 'Delivered')
		FROM orders`

	totalRevenueSQL = `SELECT COALESCE(sum(grand_total), 0) FROM orders`

	listRecentOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
)

// Columns the admin order list may be sorted by. Anything else falls back
// to created_at.
var orderSortColumns = map[string]string{
	"createdAt":   "created_at",
	"grandTotal":  "grand_total",
	"orderNumber": "order_number",
	"status":      "status",
}

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order, assigning its human-readable order number
// from the order_numbers sequence. Items, billing address, and status
// history are serialized to JSON for storage in JSONB columns.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	var seq int64
	if err := r.pool.QueryRow(ctx, nextOrderNumberSQL).Scan(&seq); err != nil {
		return fmt.Errorf("allocating order number: %w", err)
	}
	o.OrderNumber = order.FormatOrderNumber(seq)

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}
	historyJSON, err := json.Marshal(o.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshaling status history: %w", err)
	}
	var billingJSON []byte
	if o.BillingAddress != nil {
		billingJSON, err = json.Marshal(o.BillingAddress)
		if err != nil {
			return fmt.Errorf("marshaling billing address: %w", err)
		}
	}

	var discountCode *string
	if o.DiscountCode != "" {
		discountCode = &o.DiscountCode
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		billingJSON, o.PaymentMethod, itemsJSON, o.Subtotal, o.Discount, discountCode,
		o.Tax, o.GrandTotal, string(o.Status), historyJSON, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// List returns one page of orders matching the filter plus pagination totals.
func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) (order.Page, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if filter.CustomerEmail != "" {
		where = append(where, "customer_email = "+arg(strings.ToLower(filter.CustomerEmail)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM orders"+cond, args...).Scan(&total); err != nil {
		return order.Page{}, fmt.Errorf("counting orders: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	sortCol, ok := orderSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY %s %s LIMIT %s OFFSET %s`,
		orderColumns, cond, sortCol, dir, arg(limit), arg((page-1)*limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return order.Page{}, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return order.Page{}, fmt.Errorf("listing orders: %w", err)
	}

	pages := (total + limit - 1) / limit
	return order.Page{
		Orders: orders,
		Total:  total,
		Page:   page,
		Pages:  pages,
		Limit:  limit,
	}, nil
}

// Update persists an order's mutable fields: status and its history.
// Returns order.ErrNotFound for unknown IDs.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	historyJSON, err := json.Marshal(o.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshaling status history: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL, o.ID, string(o.Status), historyJSON, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete permanently removes an order. Returns order.ErrNotFound for
// unknown IDs.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// CountByStatus returns order counts split by lifecycle status.
func (r *OrderRepository) CountByStatus(ctx context.Context) (order.StatusCounts, error) {
	var c order.StatusCounts
	err := r.pool.QueryRow(ctx, countOrdersByStatusSQL).Scan(&c.Total, &c.Placed, &c.Processing, &c.Delivered)
	if err != nil {
		return order.StatusCounts{}, fmt.Errorf("counting orders: %w", err)
	}
	return c, nil
}

// TotalRevenue returns the sum of grand totals across all orders.
func (r *OrderRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, totalRevenueSQL).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("summing revenue: %w", err)
	}
	return total, nil
}

// ListRecent returns the n most recently placed orders.
func (r *OrderRepository) ListRecent(ctx context.Context, n int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listRecentOrdersSQL, n)
	if err != nil {
		return nil, fmt.Errorf("listing recent orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o            order.Order
		billingJSON  []byte
		itemsJSON    []byte
		historyJSON  []byte
		discountCode *string
		status       string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&billingJSON, &o.PaymentMethod, &itemsJSON, &o.Subtotal, &o.Discount, &discountCode,
		&o.Tax, &o.GrandTotal, &status, &historyJSON, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	o.Status = order.Status(status)
	if discountCode != nil {
		o.DiscountCode = *discountCode
	}
	if len(billingJSON) > 0 {
		o.BillingAddress = &order.BillingAddress{}
		if err := json.Unmarshal(billingJSON, o.BillingAddress); err != nil {
			return order.Order{}, fmt.Errorf("unmarshaling billing address: %w", err)
		}
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &o.StatusHistory); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling status history: %w", err)
	}
	return o, nil
}

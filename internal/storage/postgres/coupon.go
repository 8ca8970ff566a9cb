package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/coupon"
)

const (
	getCouponByCodeSQL = `SELECT code, percentage, description, valid_from, valid_until, max_uses, uses
		FROM coupons WHERE UPPER(code) = UPPER($1)`

	listCouponCodesSQL = `SELECT code FROM coupons`

	incrementCouponUsesSQL = `UPDATE coupons SET uses = uses + 1 WHERE UPPER(code) = UPPER($1)`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its code (case-insensitive). Returns
// coupon.ErrInvalidCoupon when no such coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrInvalidCoupon
		}
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}
	return &rule, nil
}

// ListCodes returns every stored coupon code. Used to seed the negative
// lookup filter at startup.
func (r *CouponRepository) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listCouponCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupon codes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var code string
		err := row.Scan(&code)
		return code, err
	})
}

// IncrementUses atomically increments the usage counter for the given code.
func (r *CouponRepository) IncrementUses(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx, incrementCouponUsesSQL, code)
	if err != nil {
		return fmt.Errorf("incrementing uses for coupon %q: %w", code, err)
	}
	return nil
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var (
		rule       coupon.Rule
		percentage decimal.Decimal
		validFrom  *time.Time
		validUntil *time.Time
		maxUses    int32
		uses       int32
	)
	err := row.Scan(
		&rule.Code, &percentage, &rule.Description,
		&validFrom, &validUntil, &maxUses, &uses,
	)
	rule.Percentage = percentage
	rule.ValidFrom = validFrom
	rule.ValidUntil = validUntil
	rule.MaxUses = int(maxUses)
	rule.Uses = int(uses)
	return rule, err
}

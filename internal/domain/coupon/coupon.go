package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCoupon is returned by repositories when a coupon code is not
// found. Evaluators translate it into an unapplied Quote rather than
// surfacing it to callers.
var ErrInvalidCoupon = errors.New("invalid coupon code")

// Rule defines a percentage coupon stored in the datastore: its code,
// discount percentage, and eligibility constraints.
type Rule struct {
	Code        string
	Percentage  decimal.Decimal
	Description string
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	MaxUses     int
	Uses        int
}

// ActiveAt reports whether the rule may be applied at the given time:
// inside its validity window and under its usage limit.
func (r *Rule) ActiveAt(now time.Time) bool {
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && now.After(*r.ValidUntil) {
		return false
	}
	if r.MaxUses > 0 && r.Uses >= r.MaxUses {
		return false
	}
	return true
}

// Quote is the result of evaluating a coupon code against a cart subtotal.
// An unapplied quote echoes the submitted code for display and leaves the
// final total equal to the subtotal.
type Quote struct {
	Applied            bool
	Code               string
	DiscountAmount     decimal.Decimal
	DiscountPercentage decimal.Decimal
	FinalTotal         decimal.Decimal
}

// Repository provides lookup and redemption of coupon rules.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	ListCodes(ctx context.Context) ([]string, error)
	IncrementUses(ctx context.Context, code string) error
}

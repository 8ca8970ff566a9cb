package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Evaluator turns a cart subtotal and a coupon code into a discount Quote.
// Unknown, expired, and exhausted codes yield an unapplied quote; only a
// datastore failure is an error. Redeem records one use of a code after
// the order it discounted has been persisted.
type Evaluator interface {
	Evaluate(ctx context.Context, subtotal decimal.Decimal, code string) (Quote, error)
	Redeem(ctx context.Context, code string) error
}

// RepoEvaluator implements Evaluator by looking up coupon rules from a
// Repository and applying them via QuoteRule.
type RepoEvaluator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoEvaluator creates a RepoEvaluator backed by the given Repository.
func NewRepoEvaluator(repo Repository) *RepoEvaluator {
	return &RepoEvaluator{repo: repo, now: time.Now}
}

// Evaluate looks up the rule for the given code and quotes it against the
// subtotal. Matching is case-insensitive; an applied quote carries the
// rule's canonical code.
func (e *RepoEvaluator) Evaluate(ctx context.Context, subtotal decimal.Decimal, code string) (Quote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return NoQuote(subtotal, ""), nil
	}

	rule, err := e.repo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return NoQuote(subtotal, code), nil
		}
		return Quote{}, errors.Wrap(err, "lookup coupon")
	}

	if !rule.ActiveAt(e.now()) {
		return NoQuote(subtotal, code), nil
	}

	return QuoteRule(rule, subtotal, code), nil
}

// Redeem increments the usage counter for the given code.
func (e *RepoEvaluator) Redeem(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if err := e.repo.IncrementUses(ctx, code); err != nil {
		return errors.Wrap(err, "increment coupon uses")
	}
	return nil
}

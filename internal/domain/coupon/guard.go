package coupon

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/shopspring/decimal"
)

const guardFPR = 0.001

// BloomGuard fronts an Evaluator with a bloom filter of known coupon codes
// so that codes which definitely do not exist are rejected without a
// datastore roundtrip. False positives fall through to the wrapped
// evaluator, which gives the authoritative answer.
//
// The filter can be swapped at runtime with Reload, so codes added to the
// store after startup become visible without a restart.
type BloomGuard struct {
	next   Evaluator
	filter atomic.Pointer[bloom.BloomFilter]
}

// NewBloomGuard builds a guard over next from the full set of known codes.
func NewBloomGuard(next Evaluator, codes []string) *BloomGuard {
	g := &BloomGuard{next: next}
	g.Reload(codes)
	return g
}

// Reload replaces the filter with one built from codes. Safe to call
// concurrently with Evaluate.
func (g *BloomGuard) Reload(codes []string) {
	n := uint(len(codes))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, guardFPR)
	for _, c := range codes {
		filter.AddString(strings.ToUpper(c))
	}
	g.filter.Store(filter)
}

// Evaluate short-circuits codes absent from the filter into an unapplied
// quote and delegates everything else.
func (g *BloomGuard) Evaluate(ctx context.Context, subtotal decimal.Decimal, code string) (Quote, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed != "" && !g.filter.Load().TestString(strings.ToUpper(trimmed)) {
		return NoQuote(subtotal, trimmed), nil
	}
	return g.next.Evaluate(ctx, subtotal, code)
}

// Redeem delegates to the wrapped evaluator.
func (g *BloomGuard) Redeem(ctx context.Context, code string) error {
	return g.next.Redeem(ctx, code)
}

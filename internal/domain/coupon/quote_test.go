package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func save10() *Rule {
	return &Rule{
		Code:        "SAVE10",
		Percentage:  d("10"),
		Description: "10% off your order",
	}
}

func TestQuoteRule(t *testing.T) {
	tests := []struct {
		name       string
		rule       *Rule
		subtotal   decimal.Decimal
		code       string
		wantApply  bool
		wantCode   string
		wantAmount decimal.Decimal
		wantFinal  decimal.Decimal
	}{
		{
			name:       "SAVE10 on 11000",
			rule:       save10(),
			subtotal:   d("11000"),
			code:       "SAVE10",
			wantApply:  true,
			wantCode:   "SAVE10",
			wantAmount: d("1100"),
			wantFinal:  d("9900"),
		},
		{
			name:       "rounds half up to whole unit",
			rule:       save10(),
			subtotal:   d("105"), // 10% = 10.5 -> 11
			code:       "SAVE10",
			wantApply:  true,
			wantCode:   "SAVE10",
			wantAmount: d("11"),
			wantFinal:  d("94"),
		},
		{
			name:       "rounds down below half",
			rule:       save10(),
			subtotal:   d("104"), // 10% = 10.4 -> 10
			code:       "SAVE10",
			wantApply:  true,
			wantCode:   "SAVE10",
			wantAmount: d("10"),
			wantFinal:  d("94"),
		},
		{
			name:       "zero subtotal",
			rule:       save10(),
			subtotal:   decimal.Zero,
			code:       "SAVE10",
			wantApply:  true,
			wantCode:   "SAVE10",
			wantAmount: decimal.Zero,
			wantFinal:  decimal.Zero,
		},
		{
			name:       "nil rule echoes code",
			rule:       nil,
			subtotal:   d("500"),
			code:       "BOGUS",
			wantApply:  false,
			wantCode:   "BOGUS",
			wantAmount: decimal.Zero,
			wantFinal:  d("500"),
		},
		{
			name:       "blank code is a no-op",
			rule:       save10(),
			subtotal:   d("500"),
			code:       "  ",
			wantApply:  false,
			wantCode:   "",
			wantAmount: decimal.Zero,
			wantFinal:  d("500"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuoteRule(tt.rule, tt.subtotal, tt.code)

			assert.Equal(t, tt.wantApply, q.Applied)
			assert.Equal(t, tt.wantCode, q.Code)
			assert.True(t, tt.wantAmount.Equal(q.DiscountAmount),
				"discount = %s, want %s", q.DiscountAmount, tt.wantAmount)
			assert.True(t, tt.wantFinal.Equal(q.FinalTotal),
				"final = %s, want %s", q.FinalTotal, tt.wantFinal)
		})
	}
}

func TestQuoteRule_FinalTotalInvariant(t *testing.T) {
	// finalTotal must always equal subtotal - discountAmount.
	for _, sub := range []string{"0", "1", "99", "100", "101", "11000", "123456789"} {
		q := QuoteRule(save10(), d(sub), "SAVE10")
		assert.True(t, d(sub).Sub(q.DiscountAmount).Equal(q.FinalTotal), "subtotal %s", sub)
	}
}

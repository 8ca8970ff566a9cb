package coupon

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NoQuote returns an unapplied quote for the given subtotal, echoing the
// submitted code for display.
func NoQuote(subtotal decimal.Decimal, code string) Quote {
	return Quote{
		Code:               code,
		DiscountAmount:     decimal.Zero,
		DiscountPercentage: decimal.Zero,
		FinalTotal:         subtotal,
	}
}

// QuoteRule computes the discount a rule yields on a subtotal. It is pure
// and total: a nil rule or blank code yields an unapplied quote, never an
// error. The discount amount is subtotal x percentage, rounded half-up to
// the nearest whole currency unit.
func QuoteRule(rule *Rule, subtotal decimal.Decimal, code string) Quote {
	code = strings.TrimSpace(code)
	if rule == nil || code == "" {
		return NoQuote(subtotal, code)
	}

	amount := subtotal.Mul(rule.Percentage).Div(hundred).Round(0)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Quote{
		Applied:            true,
		Code:               rule.Code,
		DiscountAmount:     amount,
		DiscountPercentage: rule.Percentage,
		FinalTotal:         subtotal.Sub(amount),
	}
}

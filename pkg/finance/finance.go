package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TermDays returns the whole-day span between loan date and due date at
// calendar-date granularity, clamped to zero when the due date precedes the
// loan date.
func TermDays(loanDate, dueDate time.Time) int {
	from := atMidnight(loanDate)
	to := atMidnight(dueDate)

	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Interest returns the interest amount for a principal at a percentage rate:
// principal * (rate / 100).
func Interest(principal, rate decimal.Decimal) decimal.Decimal {
	return principal.Mul(rate.Div(hundred))
}

// Total returns principal + interest. When the data source supplies an
// explicit non-zero total that value is authoritative and wins, even if it
// diverges from the computed sum.
func Total(principal, interest, explicit decimal.Decimal) decimal.Decimal {
	if !explicit.IsZero() {
		return explicit
	}
	return principal.Add(interest)
}

// EffectiveRate back-calculates the percentage rate implied by an explicit
// interest amount: (interest / principal) * 100, rounded to 2 decimal
// places. Returns zero when the principal is not positive.
func EffectiveRate(interest, principal decimal.Decimal) decimal.Decimal {
	if !principal.IsPositive() {
		return decimal.Zero
	}
	return interest.Div(principal).Mul(hundred).Round(2)
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

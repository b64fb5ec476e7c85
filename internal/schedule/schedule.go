// Package schedule implements the installment math for debt instruments:
// purchase schedules tied to a card's billing cycle, fixed-payment (French)
// loan amortization, and the regeneration of a loan's remaining schedule
// after principal prepayments.
package schedule

import (
	"math"
	"time"
)

// Cents is the tolerance used when comparing money amounts.
const Cents = 0.01

// Round2 rounds a money amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthsAfter returns the date monthsAhead months after base with the day
// of month forced to day. Days beyond the target month's length normalize
// forward (Jan 31 + 1 month on day 31 lands in early March), matching how
// the schedule dates behaved in the original ledger.
func monthsAfter(base time.Time, monthsAhead, day int) time.Time {
	return time.Date(base.Year(), base.Month()+time.Month(monthsAhead), day,
		0, 0, 0, 0, base.Location())
}

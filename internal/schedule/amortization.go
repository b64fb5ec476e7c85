package schedule

import (
	"fmt"
	"math"
	"time"
)

// AmortizationInput describes a loan to amortize with fixed monthly
// payments.
type AmortizationInput struct {
	Principal         float64
	AnnualRate        float64 // percent, e.g. 12.0
	TermMonths        int
	StartDate         time.Time
	PaymentDayOfMonth int // 1-28
}

// LoanInstallment is one computed row of an amortization schedule.
type LoanInstallment struct {
	Number           int
	DueDate          time.Time
	Payment          float64
	Principal        float64
	Interest         float64
	RemainingBalance float64
}

// MonthlyPayment returns the fixed monthly payment for a loan under
// standard French amortization. A zero rate degenerates to a straight
// division of principal over the term.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	monthlyRate := annualRate / 100 / 12
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
}

// BuildAmortizationSchedule computes the full installment schedule for a
// loan: constant payment, declining balance, per-row principal/interest
// split. The last installment's principal is set to whatever balance
// remains so the schedule closes at exactly zero.
func BuildAmortizationSchedule(in AmortizationInput) ([]LoanInstallment, error) {
	if in.Principal <= 0 {
		return nil, fmt.Errorf("principal must be positive, got %.2f", in.Principal)
	}
	if in.AnnualRate < 0 {
		return nil, fmt.Errorf("annual rate must not be negative, got %.2f", in.AnnualRate)
	}
	if in.TermMonths < 1 {
		return nil, fmt.Errorf("term must be at least 1 month, got %d", in.TermMonths)
	}
	if in.PaymentDayOfMonth < 1 || in.PaymentDayOfMonth > 28 {
		return nil, fmt.Errorf("payment day of month must be 1-28, got %d", in.PaymentDayOfMonth)
	}

	monthlyRate := in.AnnualRate / 100 / 12
	payment := MonthlyPayment(in.Principal, in.AnnualRate, in.TermMonths)

	installments := make([]LoanInstallment, 0, in.TermMonths)
	balance := in.Principal
	for i := 1; i <= in.TermMonths; i++ {
		interest := Round2(balance * monthlyRate)
		principal := Round2(payment - interest)
		if i == in.TermMonths {
			// absorb rounding drift in the closing installment
			principal = Round2(balance)
		}
		balance = math.Max(Round2(balance-principal), 0)

		installments = append(installments, LoanInstallment{
			Number:           i,
			DueDate:          monthsAfter(in.StartDate, i, in.PaymentDayOfMonth),
			Payment:          Round2(principal + interest),
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return installments, nil
}

package schedule

import (
	"fmt"
	"time"
)

// RecalcInput describes the remaining part of a loan to regenerate after
// principal prepayments have reduced the outstanding balance.
type RecalcInput struct {
	Balance            float64 // outstanding balance after applying prepayments
	AnnualRate         float64 // percent
	Payment            float64 // current monthly payment (reduce-term keeps it)
	RemainingMonths    int     // remaining installment count (reduce-payment keeps it)
	FirstPaymentNumber int     // number assigned to the first regenerated installment
	FirstDueDate       time.Time
}

// ReduceTerm regenerates the remaining schedule keeping the monthly
// payment fixed; the reduced balance pays off in fewer installments, the
// last of which is usually smaller.
func ReduceTerm(in RecalcInput) ([]LoanInstallment, error) {
	if in.Balance <= 0 {
		return nil, nil
	}
	if in.Payment <= 0 {
		return nil, fmt.Errorf("payment must be positive, got %.2f", in.Payment)
	}

	monthlyRate := in.AnnualRate / 100 / 12
	if firstInterest := in.Balance * monthlyRate; in.Payment <= firstInterest {
		return nil, fmt.Errorf("payment %.2f does not cover monthly interest %.2f", in.Payment, firstInterest)
	}

	var installments []LoanInstallment
	balance := in.Balance
	for i := 0; balance > Cents; i++ {
		interest := Round2(balance * monthlyRate)
		principal := Round2(in.Payment - interest)
		if principal >= balance {
			principal = Round2(balance)
		}
		balance = Round2(balance - principal)
		if balance <= Cents {
			balance = 0
		}

		installments = append(installments, LoanInstallment{
			Number:           in.FirstPaymentNumber + i,
			DueDate:          monthsAfter(in.FirstDueDate, i, in.FirstDueDate.Day()),
			Payment:          Round2(principal + interest),
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return installments, nil
}

// ReducePayment regenerates the remaining schedule keeping the installment
// count fixed; the monthly payment drops to amortize the reduced balance
// over the same number of months.
func ReducePayment(in RecalcInput) ([]LoanInstallment, error) {
	if in.Balance <= 0 {
		return nil, nil
	}
	if in.RemainingMonths < 1 {
		return nil, fmt.Errorf("remaining months must be at least 1, got %d", in.RemainingMonths)
	}

	monthlyRate := in.AnnualRate / 100 / 12
	payment := MonthlyPayment(in.Balance, in.AnnualRate, in.RemainingMonths)

	installments := make([]LoanInstallment, 0, in.RemainingMonths)
	balance := in.Balance
	for i := 0; i < in.RemainingMonths; i++ {
		interest := Round2(balance * monthlyRate)
		principal := Round2(payment - interest)
		if i == in.RemainingMonths-1 {
			principal = Round2(balance)
		}
		balance = Round2(balance - principal)
		if balance < 0 {
			balance = 0
		}

		installments = append(installments, LoanInstallment{
			Number:           in.FirstPaymentNumber + i,
			DueDate:          monthsAfter(in.FirstDueDate, i, in.FirstDueDate.Day()),
			Payment:          Round2(principal + interest),
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return installments, nil
}

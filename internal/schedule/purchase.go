package schedule

import (
	"fmt"
	"time"
)

// PurchaseInput describes a card purchase to split into equal monthly
// installments.
type PurchaseInput struct {
	TotalAmount        float64
	InstallmentsCount  int
	PurchaseDate       time.Time
	StatementCutoffDay int // 1-31, day the card's billing cycle closes
	PaymentDueDay      int // 1-31, day card payments are due
}

// PurchaseInstallment is one computed installment of a purchase schedule.
type PurchaseInstallment struct {
	Number  int
	DueDate time.Time
	Amount  float64
}

// BuildPurchaseSchedule splits a purchase into equal installments due on
// the card's payment day. A purchase on or after the statement cutoff day
// misses the closing cycle, so its first installment is pushed one month
// further out (two months after the purchase instead of one).
//
// Amounts are rounded to cents; the final installment absorbs the rounding
// remainder so the installments always sum to the exact total.
func BuildPurchaseSchedule(in PurchaseInput) ([]PurchaseInstallment, error) {
	if in.TotalAmount <= 0 {
		return nil, fmt.Errorf("total amount must be positive, got %.2f", in.TotalAmount)
	}
	if in.InstallmentsCount < 1 {
		return nil, fmt.Errorf("installments count must be at least 1, got %d", in.InstallmentsCount)
	}
	if in.StatementCutoffDay < 1 || in.StatementCutoffDay > 31 {
		return nil, fmt.Errorf("statement cutoff day must be 1-31, got %d", in.StatementCutoffDay)
	}
	if in.PaymentDueDay < 1 || in.PaymentDueDay > 31 {
		return nil, fmt.Errorf("payment due day must be 1-31, got %d", in.PaymentDueDay)
	}

	offset := 1
	if in.PurchaseDate.Day() >= in.StatementCutoffDay {
		offset = 2
	}

	perInstallment := Round2(in.TotalAmount / float64(in.InstallmentsCount))

	installments := make([]PurchaseInstallment, 0, in.InstallmentsCount)
	for i := 1; i <= in.InstallmentsCount; i++ {
		amount := perInstallment
		if i == in.InstallmentsCount {
			// rounding remainder lands on the last installment
			amount = Round2(in.TotalAmount - perInstallment*float64(in.InstallmentsCount-1))
		}
		installments = append(installments, PurchaseInstallment{
			Number:  i,
			DueDate: monthsAfter(in.PurchaseDate, i+offset-1, in.PaymentDueDay),
			Amount:  amount,
		})
	}

	return installments, nil
}

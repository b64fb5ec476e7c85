package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/schedule"
)

// RecalculationPlan describes what applying a loan's unapplied prepayments
// would do to the schedule: which installments the prepayment total
// covers, which pending installments get replaced, and the regenerated
// rows that replace them.
type RecalculationPlan struct {
	AppliedTotal       float64
	CoveredPaymentIDs  []uuid.UUID
	ReplacedPaymentIDs []uuid.UUID
	NewInstallments    []schedule.LoanInstallment
}

// PlanRecalculation computes the effect of applying all unapplied
// prepayments of the loan under the given strategy. The prepayment total
// covers pending installments from the tail of the schedule (the same
// order the prepayment was sized against); the still-uncovered pending
// head is regenerated over the reduced balance.
func PlanRecalculation(loan *models.Loan, strategy models.RecalculationStrategy) (*RecalculationPlan, error) {
	total := 0.0
	for _, p := range loan.PrincipalPayments {
		if !p.IsApplied {
			total += p.Amount
		}
	}
	total = schedule.Round2(total)
	if total <= 0 {
		return nil, validationErr("loan", "no unapplied principal prepayments")
	}

	pending := make([]models.LoanPayment, 0, len(loan.Payments))
	for _, p := range loan.Payments {
		if p.Status == models.PaymentStatusPending {
			pending = append(pending, p)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].PaymentNumber < pending[j].PaymentNumber
	})

	plan := &RecalculationPlan{AppliedTotal: total}

	// cover the tail of the schedule up to the prepayment total
	covered := 0.0
	cut := len(pending)
	for cut > 0 {
		next := covered + pending[cut-1].PaymentAmount
		if next > total+schedule.Cents {
			break
		}
		covered = next
		cut--
		plan.CoveredPaymentIDs = append(plan.CoveredPaymentIDs, pending[cut].ID)
	}

	remaining := pending[:cut]
	if len(remaining) == 0 {
		return plan, nil
	}
	first := remaining[0]

	base := balanceBefore(loan, first.PaymentNumber)

	newBalance := schedule.Round2(base - total)
	if newBalance <= schedule.Cents {
		// prepayments extinguish the whole remaining balance
		for _, p := range remaining {
			plan.CoveredPaymentIDs = append(plan.CoveredPaymentIDs, p.ID)
		}
		return plan, nil
	}

	for _, p := range remaining {
		plan.ReplacedPaymentIDs = append(plan.ReplacedPaymentIDs, p.ID)
	}

	in := schedule.RecalcInput{
		Balance:            newBalance,
		AnnualRate:         loan.InterestRate,
		Payment:            first.PaymentAmount,
		RemainingMonths:    len(remaining),
		FirstPaymentNumber: first.PaymentNumber,
		FirstDueDate:       first.DueDate,
	}

	var err error
	switch strategy {
	case models.StrategyReduceTerm:
		plan.NewInstallments, err = schedule.ReduceTerm(in)
	case models.StrategyReducePayment:
		plan.NewInstallments, err = schedule.ReducePayment(in)
	default:
		return nil, validationErr("strategy", "unknown strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// balanceBefore returns the balance outstanding before the installment
// with the given number: the recorded remaining balance of its
// predecessor, or the initial amount for the first installment.
func balanceBefore(loan *models.Loan, paymentNumber int) float64 {
	base := loan.InitialAmount
	bestNumber := 0
	for _, p := range loan.Payments {
		if p.PaymentNumber < paymentNumber && p.PaymentNumber > bestNumber {
			bestNumber = p.PaymentNumber
			base = p.RemainingBalance
		}
	}
	return base
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/schedule"
)

// AnalyticsService aggregates ledger and debt figures for reporting
type AnalyticsService struct {
	transactions repository.TransactionRepository
	loans        repository.LoanRepository
	accounts     repository.AccountRepository
	log          *logrus.Logger
}

func NewAnalyticsService(
	transactions repository.TransactionRepository,
	loans repository.LoanRepository,
	accounts repository.AccountRepository,
	log *logrus.Logger,
) *AnalyticsService {
	return &AnalyticsService{transactions: transactions, loans: loans, accounts: accounts, log: log}
}

// trendMonths is the window both trend reports cover
const trendMonths = 12

// MonthlySummary returns income and expense totals for one calendar month
func (s *AnalyticsService) MonthlySummary(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*models.MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	transactions, err := s.transactions.ListByUserAndPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.Income += t.Amount
		case models.TransactionTypeExpense:
			summary.Expense += t.Amount
		}
	}
	summary.Income = schedule.Round2(summary.Income)
	summary.Expense = schedule.Round2(summary.Expense)
	summary.Net = schedule.Round2(summary.Income - summary.Expense)
	return summary, nil
}

// CashFlowTrend returns monthly income and expense totals for the last
// twelve months, oldest first, including months with no activity.
func (s *AnalyticsService) CashFlowTrend(ctx context.Context, userID uuid.UUID) ([]models.CashFlowPoint, error) {
	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	to := first.AddDate(0, trendMonths, 0)

	transactions, err := s.transactions.ListByUserAndPeriod(ctx, userID, first, to)
	if err != nil {
		return nil, err
	}

	points := make([]models.CashFlowPoint, trendMonths)
	for i := range points {
		m := first.AddDate(0, i, 0)
		points[i] = models.CashFlowPoint{Year: m.Year(), Month: int(m.Month())}
	}
	for _, t := range transactions {
		i := monthsAfterStart(first, t.Date)
		if i < 0 || i >= trendMonths {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			points[i].Income += t.Amount
		case models.TransactionTypeExpense:
			points[i].Expense += t.Amount
		}
	}
	for i := range points {
		points[i].Income = schedule.Round2(points[i].Income)
		points[i].Expense = schedule.Round2(points[i].Expense)
		points[i].Net = schedule.Round2(points[i].Income - points[i].Expense)
	}
	return points, nil
}

// NetWorthTrend reconstructs end-of-month net worth for the last twelve
// months by unwinding the ledger from the current account balances.
// Transfers move money between accounts and leave the total unchanged.
func (s *AnalyticsService) NetWorthTrend(ctx context.Context, userID uuid.UUID) ([]models.NetWorthPoint, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	current := 0.0
	for _, a := range accounts {
		current += a.Balance
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	to := first.AddDate(0, trendMonths, 0)

	transactions, err := s.transactions.ListByUserAndPeriod(ctx, userID, first, to)
	if err != nil {
		return nil, err
	}

	// net change within each month of the window
	delta := make([]float64, trendMonths)
	for _, t := range transactions {
		i := monthsAfterStart(first, t.Date)
		if i < 0 || i >= trendMonths {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			delta[i] += t.Amount
		case models.TransactionTypeExpense:
			delta[i] -= t.Amount
		}
	}

	points := make([]models.NetWorthPoint, trendMonths)
	running := current
	for i := trendMonths - 1; i >= 0; i-- {
		m := first.AddDate(0, i, 0)
		points[i] = models.NetWorthPoint{Year: m.Year(), Month: int(m.Month()), NetWorth: schedule.Round2(running)}
		running -= delta[i]
	}
	return points, nil
}

func monthsAfterStart(start, date time.Time) int {
	return (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
}

// DebtSummary aggregates open debt across the user's loans: outstanding
// balance, principal and interest paid directly, and applied prepayments.
func (s *AnalyticsService) DebtSummary(ctx context.Context, userID uuid.UUID) (*models.DebtSummary, error) {
	loans, err := s.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.DebtSummary{}
	for _, loan := range loans {
		// outstanding balance is what remains before the earliest pending
		// installment; a loan with nothing pending is settled
		firstPending := 0
		for _, p := range loan.Payments {
			if p.Status == models.PaymentStatusPending && (firstPending == 0 || p.PaymentNumber < firstPending) {
				firstPending = p.PaymentNumber
			}
			if p.PaymentState() == models.StatePaidDirect {
				summary.PrincipalPaid += p.PrincipalAmount
				summary.InterestPaid += p.InterestAmount
			}
		}
		if firstPending > 0 {
			summary.TotalDebt += balanceBefore(&loan, firstPending)
		}

		for _, pp := range loan.PrincipalPayments {
			if pp.IsApplied {
				summary.ExtraPaid += pp.Amount
			}
		}
	}

	summary.TotalDebt = schedule.Round2(summary.TotalDebt)
	summary.PrincipalPaid = schedule.Round2(summary.PrincipalPaid)
	summary.InterestPaid = schedule.Round2(summary.InterestPaid)
	summary.ExtraPaid = schedule.Round2(summary.ExtraPaid)
	return summary, nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/schedule"
)

// LoanService manages amortized loans: schedule computation at creation,
// the installment payment lifecycle, principal prepayments and the
// recalculation that applies them.
type LoanService struct {
	loans        repository.LoanRepository
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	log          *logrus.Logger
}

func NewLoanService(
	loans repository.LoanRepository,
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	log *logrus.Logger,
) *LoanService {
	return &LoanService{
		loans:        loans,
		transactions: transactions,
		accounts:     accounts,
		log:          log,
	}
}

// Create validates the request, computes the amortization schedule and
// persists loan and installments together, with the same compensating
// delete contract as purchase creation.
func (s *LoanService) Create(ctx context.Context, userID uuid.UUID, req models.CreateLoanRequest) (*models.Loan, error) {
	if req.Description == "" {
		return nil, validationErr("description", "must not be empty")
	}

	installments, err := schedule.BuildAmortizationSchedule(schedule.AmortizationInput{
		Principal:         req.InitialAmount,
		AnnualRate:        req.InterestRate,
		TermMonths:        req.TermMonths,
		StartDate:         req.StartDate,
		PaymentDayOfMonth: req.PaymentDayOfMonth,
	})
	if err != nil {
		return nil, validationErr("schedule", "%v", err)
	}

	loan := &models.Loan{
		UserID:             userID,
		Description:        req.Description,
		IssuingInstitution: req.IssuingInstitution,
		InitialAmount:      req.InitialAmount,
		InterestRate:       req.InterestRate,
		TermMonths:         req.TermMonths,
		StartDate:          req.StartDate,
		PaymentDayOfMonth:  req.PaymentDayOfMonth,
		LateFee:            req.LateFee,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	payments := make([]models.LoanPayment, 0, len(installments))
	for _, inst := range installments {
		payments = append(payments, models.LoanPayment{
			LoanID:           loan.ID,
			PaymentNumber:    inst.Number,
			DueDate:          inst.DueDate,
			PaymentAmount:    inst.Payment,
			PrincipalAmount:  inst.Principal,
			InterestAmount:   inst.Interest,
			RemainingBalance: inst.RemainingBalance,
			Status:           models.PaymentStatusPending,
		})
	}
	if err := s.loans.CreatePayments(ctx, payments); err != nil {
		if delErr := s.loans.Delete(ctx, loan.ID); delErr != nil {
			s.log.WithError(delErr).Errorf("Compensating delete failed for loan %s", loan.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrScheduleGenerationFailed, err)
	}
	loan.Payments = payments

	s.log.Infof("Loan %s created for user %s: %.2f at %.2f%% over %d months",
		loan.ID, userID, loan.InitialAmount, loan.InterestRate, loan.TermMonths)
	return loan, nil
}

// List returns the user's loans with installments and prepayments
func (s *LoanService) List(ctx context.Context, userID uuid.UUID) ([]models.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}

// Get returns a single loan with installments and prepayments
func (s *LoanService) Get(ctx context.Context, userID, loanID uuid.UUID) (*models.Loan, error) {
	return s.ownedLoan(ctx, userID, loanID)
}

// Update changes the general information of a loan; amounts, rate and term
// are fixed once the schedule exists.
func (s *LoanService) Update(ctx context.Context, userID, loanID uuid.UUID, req models.UpdateLoanRequest) error {
	if req.Description == "" {
		return validationErr("description", "must not be empty")
	}
	if req.LateFee < 0 {
		return validationErr("late_fee", "must not be negative, got %.2f", req.LateFee)
	}
	if _, err := s.ownedLoan(ctx, userID, loanID); err != nil {
		return err
	}
	if err := s.loans.Update(ctx, loanID, req); err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return nil
}

// Delete removes a loan together with its installments, prepayments and
// any transactions they reference.
func (s *LoanService) Delete(ctx context.Context, userID, loanID uuid.UUID) error {
	if _, err := s.ownedLoan(ctx, userID, loanID); err != nil {
		return err
	}
	if err := s.loans.CascadeDelete(ctx, loanID); err != nil {
		return err
	}
	s.log.Infof("Loan %s deleted for user %s", loanID, userID)
	return nil
}

// PayInstallment marks the given installment paid from the chosen source
// account, backed by exactly one expense transaction. Only the earliest
// pending installment may be paid.
func (s *LoanService) PayInstallment(ctx context.Context, userID, loanID, paymentID, fromAccountID uuid.UUID) (*models.LoanPayment, error) {
	loan, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyAccount(ctx, userID, fromAccountID); err != nil {
		return nil, err
	}

	var payment *models.LoanPayment
	for i := range loan.Payments {
		if loan.Payments[i].ID == paymentID {
			payment = &loan.Payments[i]
			break
		}
	}
	if payment == nil {
		return nil, repository.ErrNotFound
	}
	if payment.PaymentState() != models.StatePending {
		return nil, validationErr("payment", "installment %d is already paid", payment.PaymentNumber)
	}

	for _, p := range loan.Payments {
		if p.Status == models.PaymentStatusPending && p.PaymentNumber < payment.PaymentNumber {
			return nil, fmt.Errorf("cannot pay installment %d: %w", payment.PaymentNumber, ErrPaymentOrderViolation)
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   fromAccountID,
		Description: fmt.Sprintf("%s (payment %d/%d)", loan.Description, payment.PaymentNumber, loan.TermMonths),
		Amount:      payment.PaymentAmount,
		Date:        time.Now(),
		Type:        models.TransactionTypeExpense,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	if err := s.loans.MarkPaymentPaid(ctx, payment.ID, transaction.ID); err != nil {
		if delErr := s.transactions.Delete(ctx, transaction.ID); delErr != nil {
			s.log.WithError(delErr).Errorf("Failed to delete orphaned transaction %s", transaction.ID)
		}
		return nil, fmt.Errorf("failed to mark installment paid: %w", err)
	}

	payment.Status = models.PaymentStatusPaid
	payment.TransactionID = &transaction.ID

	s.log.Infof("Installment %d/%d of loan %s paid (transaction %s)",
		payment.PaymentNumber, loan.TermMonths, loan.ID, transaction.ID)
	return payment, nil
}

// RevertInstallment undoes a user-initiated installment payment.
// Installments covered by an applied prepayment have no transaction of
// their own and cannot be reverted here.
func (s *LoanService) RevertInstallment(ctx context.Context, userID, loanID, paymentID uuid.UUID) (*models.LoanPayment, error) {
	if _, err := s.ownedLoan(ctx, userID, loanID); err != nil {
		return nil, err
	}

	payment, err := s.loans.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.LoanID != loanID {
		return nil, repository.ErrNotFound
	}

	if payment.PaymentState() != models.StatePaidDirect {
		return nil, fmt.Errorf("cannot revert installment %d: %w", payment.PaymentNumber, ErrNoRevertibleTransaction)
	}

	transactionID := *payment.TransactionID
	if err := s.loans.MarkPaymentPending(ctx, payment.ID); err != nil {
		return nil, fmt.Errorf("failed to reset installment: %w", err)
	}
	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		// put the installment back so the ledger entry is not orphaned
		if restoreErr := s.loans.MarkPaymentPaid(ctx, payment.ID, transactionID); restoreErr != nil {
			s.log.Errorf("Failed to restore installment %s after transaction delete failure: %v", payment.ID, restoreErr)
		}
		return nil, fmt.Errorf("failed to delete payment transaction: %w", err)
	}

	payment.Status = models.PaymentStatusPending
	payment.TransactionID = nil

	s.log.Infof("Installment %d of loan %s reverted (transaction %s removed)",
		payment.PaymentNumber, loanID, transactionID)
	return payment, nil
}

// MakePrincipalPayment records an advance lump-sum payment sized to the
// numPayments highest-numbered pending installments (paying the tail of
// the schedule first). Money moves immediately through one transaction;
// the schedule itself stays untouched until a recalculation applies it.
func (s *LoanService) MakePrincipalPayment(ctx context.Context, userID, loanID uuid.UUID, req models.PrincipalPaymentRequest) (*models.LoanPrincipalPayment, error) {
	if req.NumPayments < 1 {
		return nil, validationErr("num_payments", "must be at least 1, got %d", req.NumPayments)
	}

	loan, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyAccount(ctx, userID, req.FromAccountID); err != nil {
		return nil, err
	}

	pending := pendingTailFirst(loan.Payments)
	if req.NumPayments > len(pending) {
		return nil, validationErr("num_payments", "only %d installments are pending", len(pending))
	}

	total := 0.0
	for _, p := range pending[:req.NumPayments] {
		total += p.PaymentAmount
	}
	total = schedule.Round2(total)

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   req.FromAccountID,
		Description: fmt.Sprintf("%s (principal prepayment, %d installments)", loan.Description, req.NumPayments),
		Amount:      total,
		Date:        time.Now(),
		Type:        models.TransactionTypeExpense,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create prepayment transaction: %w", err)
	}

	prepayment := &models.LoanPrincipalPayment{
		LoanID:        loanID,
		Amount:        total,
		PaymentDate:   time.Now(),
		TransactionID: &transaction.ID,
		IsApplied:     false,
	}
	if err := s.loans.CreatePrincipalPayment(ctx, prepayment); err != nil {
		if delErr := s.transactions.Delete(ctx, transaction.ID); delErr != nil {
			s.log.WithError(delErr).Errorf("Failed to delete orphaned transaction %s", transaction.ID)
		}
		return nil, fmt.Errorf("failed to record principal prepayment: %w", err)
	}

	s.log.Infof("Principal prepayment of %.2f recorded for loan %s (covers %d installments)",
		total, loanID, req.NumPayments)
	return prepayment, nil
}

// RevertPrincipalPayment removes a prepayment and its transaction; if the
// prepayment was already applied, the external cascade procedure restores
// the schedule it rewrote.
func (s *LoanService) RevertPrincipalPayment(ctx context.Context, userID, prepaymentID uuid.UUID) error {
	prepayment, err := s.loans.GetPrincipalPayment(ctx, prepaymentID)
	if err != nil {
		return err
	}
	if _, err := s.ownedLoan(ctx, userID, prepayment.LoanID); err != nil {
		return err
	}

	if err := s.loans.CascadeRevertPrincipalPayment(ctx, prepaymentID); err != nil {
		return err
	}

	s.log.Infof("Principal prepayment %s of loan %s reverted", prepaymentID, prepayment.LoanID)
	return nil
}

// Recalculate applies all unapplied prepayments of the loan through the
// external recalculation procedure under the chosen strategy.
func (s *LoanService) Recalculate(ctx context.Context, userID, loanID uuid.UUID, strategy models.RecalculationStrategy) error {
	if strategy != models.StrategyReduceTerm && strategy != models.StrategyReducePayment {
		return validationErr("strategy", "unknown strategy %q", strategy)
	}

	loan, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return err
	}

	hasUnapplied := false
	for _, p := range loan.PrincipalPayments {
		if !p.IsApplied {
			hasUnapplied = true
			break
		}
	}
	if !hasUnapplied {
		return validationErr("loan", "no unapplied principal prepayments")
	}

	if err := s.loans.Recalculate(ctx, loanID, time.Now(), strategy); err != nil {
		return err
	}

	s.log.Infof("Loan %s recalculated with strategy %s", loanID, strategy)
	return nil
}

// PreviewRecalculation computes, without persisting anything, the schedule
// a recalculation would produce for the loan's unapplied prepayments.
func (s *LoanService) PreviewRecalculation(ctx context.Context, userID, loanID uuid.UUID, strategy models.RecalculationStrategy) ([]schedule.LoanInstallment, error) {
	if strategy != models.StrategyReduceTerm && strategy != models.StrategyReducePayment {
		return nil, validationErr("strategy", "unknown strategy %q", strategy)
	}

	loan, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	plan, err := PlanRecalculation(loan, strategy)
	if err != nil {
		return nil, err
	}
	return plan.NewInstallments, nil
}

func (s *LoanService) ownedLoan(ctx context.Context, userID, loanID uuid.UUID) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrNotOwned
	}
	return loan, nil
}

func (s *LoanService) verifyAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return ErrNotOwned
	}
	return nil
}

// pendingTailFirst returns the loan's pending installments ordered from
// the highest payment number down.
func pendingTailFirst(payments []models.LoanPayment) []models.LoanPayment {
	var pending []models.LoanPayment
	for _, p := range payments {
		if p.Status == models.PaymentStatusPending {
			pending = append(pending, p)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].PaymentNumber > pending[j].PaymentNumber
	})
	return pending
}

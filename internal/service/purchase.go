package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/schedule"
)

// PurchaseService manages fixed-installment card purchases: schedule
// generation at creation time and the pay/revert lifecycle of each
// installment against the ledger.
type PurchaseService struct {
	purchases    repository.PurchaseRepository
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	log          *logrus.Logger
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	log *logrus.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchases:    purchases,
		transactions: transactions,
		accounts:     accounts,
		log:          log,
	}
}

// Create validates the request, computes the installment schedule from the
// card's billing cycle and persists purchase and installments together.
// There is no multi-object transaction at the persistence boundary: if
// installment persistence fails after the purchase record was written, the
// purchase is removed again by a compensating delete and a single
// ErrScheduleGenerationFailed is returned.
func (s *PurchaseService) Create(ctx context.Context, userID uuid.UUID, req models.CreatePurchaseRequest) (*models.MonthlyPurchase, error) {
	if req.Description == "" {
		return nil, validationErr("description", "must not be empty")
	}

	account, err := s.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, ErrNotOwned
	}
	if account.Type != models.AccountTypeCreditCard {
		return nil, validationErr("account_id", "installment purchases require a credit card account")
	}

	installments, err := schedule.BuildPurchaseSchedule(schedule.PurchaseInput{
		TotalAmount:        req.TotalAmount,
		InstallmentsCount:  req.InstallmentsCount,
		PurchaseDate:       req.PurchaseDate,
		StatementCutoffDay: account.StatementCutoffDay,
		PaymentDueDay:      account.PaymentDueDay,
	})
	if err != nil {
		return nil, validationErr("schedule", "%v", err)
	}

	purchase := &models.MonthlyPurchase{
		UserID:            userID,
		AccountID:         req.AccountID,
		CategoryID:        req.CategoryID,
		Description:       req.Description,
		TotalAmount:       req.TotalAmount,
		InstallmentsCount: req.InstallmentsCount,
		PurchaseDate:      req.PurchaseDate,
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	payments := make([]models.PurchasePayment, 0, len(installments))
	for _, inst := range installments {
		payments = append(payments, models.PurchasePayment{
			PurchaseID:    purchase.ID,
			PaymentNumber: inst.Number,
			DueDate:       inst.DueDate,
			Amount:        inst.Amount,
			Status:        models.PaymentStatusPending,
		})
	}
	if err := s.purchases.CreatePayments(ctx, payments); err != nil {
		// compensating delete, no orphaned purchase record
		if delErr := s.purchases.Delete(ctx, purchase.ID); delErr != nil {
			s.log.WithError(delErr).Errorf("Compensating delete failed for purchase %s", purchase.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrScheduleGenerationFailed, err)
	}
	purchase.Payments = payments

	s.log.Infof("Purchase %s created for user %s: %.2f over %d installments",
		purchase.ID, userID, purchase.TotalAmount, purchase.InstallmentsCount)
	return purchase, nil
}

// List returns the user's purchases with their installments
func (s *PurchaseService) List(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPurchase, error) {
	return s.purchases.ListByUser(ctx, userID)
}

// Get returns a single purchase with its installments
func (s *PurchaseService) Get(ctx context.Context, userID, purchaseID uuid.UUID) (*models.MonthlyPurchase, error) {
	return s.ownedPurchase(ctx, userID, purchaseID)
}

// Update changes the general information of a purchase. Amounts and the
// schedule are fixed once generated.
func (s *PurchaseService) Update(ctx context.Context, userID, purchaseID uuid.UUID, req models.UpdatePurchaseRequest) error {
	if req.Description == "" {
		return validationErr("description", "must not be empty")
	}
	if _, err := s.ownedPurchase(ctx, userID, purchaseID); err != nil {
		return err
	}
	if err := s.purchases.Update(ctx, purchaseID, req); err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return nil
}

// Delete removes a purchase together with its installments and any
// transactions they reference.
func (s *PurchaseService) Delete(ctx context.Context, userID, purchaseID uuid.UUID) error {
	if _, err := s.ownedPurchase(ctx, userID, purchaseID); err != nil {
		return err
	}
	if err := s.purchases.CascadeDelete(ctx, purchaseID); err != nil {
		return err
	}
	s.log.Infof("Purchase %s deleted for user %s", purchaseID, userID)
	return nil
}

// PayInstallment marks the given installment paid, backed by exactly one
// expense transaction on the purchase's card account. Only the earliest
// pending installment may be paid.
func (s *PurchaseService) PayInstallment(ctx context.Context, userID, purchaseID, paymentID uuid.UUID) (*models.PurchasePayment, error) {
	purchase, err := s.ownedPurchase(ctx, userID, purchaseID)
	if err != nil {
		return nil, err
	}

	var payment *models.PurchasePayment
	for i := range purchase.Payments {
		if purchase.Payments[i].ID == paymentID {
			payment = &purchase.Payments[i]
			break
		}
	}
	if payment == nil {
		return nil, repository.ErrNotFound
	}
	if payment.PaymentState() != models.StatePending {
		return nil, validationErr("payment", "installment %d is already paid", payment.PaymentNumber)
	}

	// strict FIFO: only the earliest pending installment may be paid
	for _, p := range purchase.Payments {
		if p.Status == models.PaymentStatusPending && p.PaymentNumber < payment.PaymentNumber {
			return nil, fmt.Errorf("cannot pay installment %d: %w", payment.PaymentNumber, ErrPaymentOrderViolation)
		}
	}

	categoryID := purchase.CategoryID
	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   purchase.AccountID,
		CategoryID:  &categoryID,
		Description: fmt.Sprintf("%s (installment %d/%d)", purchase.Description, payment.PaymentNumber, purchase.InstallmentsCount),
		Amount:      payment.Amount,
		Date:        time.Now(),
		Type:        models.TransactionTypeExpense,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	if err := s.purchases.MarkPaymentPaid(ctx, payment.ID, transaction.ID); err != nil {
		// roll the ledger entry back rather than leave it orphaned
		if delErr := s.transactions.Delete(ctx, transaction.ID); delErr != nil {
			s.log.WithError(delErr).Errorf("Failed to delete orphaned transaction %s", transaction.ID)
		}
		return nil, fmt.Errorf("failed to mark installment paid: %w", err)
	}

	payment.Status = models.PaymentStatusPaid
	payment.TransactionID = &transaction.ID

	s.log.Infof("Installment %d/%d of purchase %s paid (transaction %s)",
		payment.PaymentNumber, purchase.InstallmentsCount, purchase.ID, transaction.ID)
	return payment, nil
}

// RevertInstallment undoes a user-initiated installment payment: the
// backing transaction is deleted and the installment returns to pending.
func (s *PurchaseService) RevertInstallment(ctx context.Context, userID, purchaseID, paymentID uuid.UUID) (*models.PurchasePayment, error) {
	if _, err := s.ownedPurchase(ctx, userID, purchaseID); err != nil {
		return nil, err
	}

	payment, err := s.purchases.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.PurchaseID != purchaseID {
		return nil, repository.ErrNotFound
	}

	if payment.PaymentState() != models.StatePaidDirect {
		return nil, fmt.Errorf("cannot revert installment %d: %w", payment.PaymentNumber, ErrNoRevertibleTransaction)
	}

	transactionID := *payment.TransactionID
	if err := s.purchases.MarkPaymentPending(ctx, payment.ID); err != nil {
		return nil, fmt.Errorf("failed to reset installment: %w", err)
	}
	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		// put the installment back so the ledger entry is not orphaned
		if restoreErr := s.purchases.MarkPaymentPaid(ctx, payment.ID, transactionID); restoreErr != nil {
			s.log.Errorf("Failed to restore installment %s after transaction delete failure: %v", payment.ID, restoreErr)
		}
		return nil, fmt.Errorf("failed to delete payment transaction: %w", err)
	}

	payment.Status = models.PaymentStatusPending
	payment.TransactionID = nil

	s.log.Infof("Installment %d of purchase %s reverted (transaction %s removed)",
		payment.PaymentNumber, purchaseID, transactionID)
	return payment, nil
}

func (s *PurchaseService) ownedPurchase(ctx context.Context, userID, purchaseID uuid.UUID) (*models.MonthlyPurchase, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, ErrNotOwned
	}
	return purchase, nil
}

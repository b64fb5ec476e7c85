package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// RecurringService manages recurring-transaction templates and posts
// their ledger entries on demand.
type RecurringService struct {
	recurring    repository.RecurringTransactionRepository
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	log          *logrus.Logger
}

func NewRecurringService(
	recurring repository.RecurringTransactionRepository,
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	log *logrus.Logger,
) *RecurringService {
	return &RecurringService{recurring: recurring, transactions: transactions, accounts: accounts, log: log}
}

// nextAfter advances a due date by one frequency step
func nextAfter(date time.Time, frequency models.RecurrenceFrequency) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case models.FrequencyYearly:
		return date.AddDate(1, 0, 0)
	default:
		return date.AddDate(0, 1, 0)
	}
}

func (s *RecurringService) validate(ctx context.Context, userID uuid.UUID, req *models.RecurringTransactionRequest) error {
	switch req.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
	default:
		return validationErr("type", "unknown transaction type %q", req.Type)
	}
	switch req.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return validationErr("frequency", "unknown frequency %q", req.Frequency)
	}
	if req.Description == "" {
		return validationErr("description", "must not be empty")
	}
	if req.Amount <= 0 {
		return validationErr("amount", "must be positive, got %.2f", req.Amount)
	}
	if req.StartDate.IsZero() {
		return validationErr("start_date", "required")
	}

	// same type-dependent field rules as one-off ledger entries
	if req.Type == models.TransactionTypeTransfer {
		req.CategoryID = nil
	} else {
		req.DestinationAccountID = nil
	}

	account, err := s.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return ErrNotOwned
	}
	if req.Type == models.TransactionTypeTransfer {
		if req.DestinationAccountID == nil {
			return validationErr("destination_account_id", "required for transfers")
		}
		dest, err := s.accounts.GetByID(ctx, *req.DestinationAccountID)
		if err != nil {
			return err
		}
		if dest.UserID != userID {
			return ErrNotOwned
		}
	}
	return nil
}

func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, req models.RecurringTransactionRequest) (*models.RecurringTransaction, error) {
	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	recurring := &models.RecurringTransaction{
		UserID:               userID,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		CategoryID:           req.CategoryID,
		Description:          req.Description,
		Amount:               req.Amount,
		Type:                 req.Type,
		Frequency:            req.Frequency,
		StartDate:            req.StartDate,
		NextDueDate:          req.StartDate,
	}
	if err := s.recurring.Create(ctx, recurring); err != nil {
		return nil, err
	}

	s.log.Infof("Recurring transaction %s created for user %s: %s %s %.2f",
		recurring.ID, userID, recurring.Frequency, recurring.Type, recurring.Amount)
	return recurring, nil
}

func (s *RecurringService) List(ctx context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	return s.recurring.ListByUser(ctx, userID)
}

// Update replaces the template. A changed start date resets the next due
// date along with it.
func (s *RecurringService) Update(ctx context.Context, userID, recurringID uuid.UUID, req models.RecurringTransactionRequest) (*models.RecurringTransaction, error) {
	existing, err := s.ownedRecurring(ctx, userID, recurringID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	if !req.StartDate.Equal(existing.StartDate) {
		existing.NextDueDate = req.StartDate
	}
	existing.AccountID = req.AccountID
	existing.DestinationAccountID = req.DestinationAccountID
	existing.CategoryID = req.CategoryID
	existing.Description = req.Description
	existing.Amount = req.Amount
	existing.Type = req.Type
	existing.Frequency = req.Frequency
	existing.StartDate = req.StartDate

	if err := s.recurring.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update recurring transaction: %w", err)
	}
	return existing, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, recurringID uuid.UUID) error {
	if _, err := s.ownedRecurring(ctx, userID, recurringID); err != nil {
		return err
	}
	return s.recurring.Delete(ctx, recurringID)
}

// Execute posts one ledger entry from the template, dated the template's
// current due date, and advances the due date one frequency step. The
// entry is removed again if the advance fails, so a retried execution
// cannot double-post.
func (s *RecurringService) Execute(ctx context.Context, userID, recurringID uuid.UUID) (*models.Transaction, error) {
	recurring, err := s.ownedRecurring(ctx, userID, recurringID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:               userID,
		AccountID:            recurring.AccountID,
		DestinationAccountID: recurring.DestinationAccountID,
		CategoryID:           recurring.CategoryID,
		Description:          recurring.Description,
		Amount:               recurring.Amount,
		Date:                 recurring.NextDueDate,
		Type:                 recurring.Type,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to post recurring transaction: %w", err)
	}

	nextDue := nextAfter(recurring.NextDueDate, recurring.Frequency)
	if err := s.recurring.SetNextDueDate(ctx, recurringID, nextDue); err != nil {
		if cleanupErr := s.transactions.Delete(ctx, transaction.ID); cleanupErr != nil {
			s.log.Errorf("Failed to clean up transaction %s after advance failure: %v", transaction.ID, cleanupErr)
		}
		return nil, fmt.Errorf("failed to advance recurring transaction: %w", err)
	}

	s.log.Infof("Recurring transaction %s executed for user %s: posted %.2f, next due %s",
		recurringID, userID, transaction.Amount, nextDue.Format("2006-01-02"))
	return transaction, nil
}

func (s *RecurringService) ownedRecurring(ctx context.Context, userID, recurringID uuid.UUID) (*models.RecurringTransaction, error) {
	recurring, err := s.recurring.GetByID(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	if recurring.UserID != userID {
		return nil, ErrNotOwned
	}
	return recurring, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// TransactionService handles the user-facing ledger surface. The debt
// engine creates and removes its entries through the repository directly.
type TransactionService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	log          *logrus.Logger
}

func NewTransactionService(transactions repository.TransactionRepository, accounts repository.AccountRepository, log *logrus.Logger) *TransactionService {
	return &TransactionService{transactions: transactions, accounts: accounts, log: log}
}

// normalize applies the type-dependent field rules: transfers carry no
// category, everything else carries no destination account.
func normalize(req *models.TransactionRequest) {
	if req.Type == models.TransactionTypeTransfer {
		req.CategoryID = nil
	} else {
		req.DestinationAccountID = nil
	}
}

func (s *TransactionService) validate(ctx context.Context, userID uuid.UUID, req *models.TransactionRequest) error {
	switch req.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
	default:
		return validationErr("type", "unknown transaction type %q", req.Type)
	}
	if req.Amount <= 0 {
		return validationErr("amount", "must be positive, got %.2f", req.Amount)
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

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req models.TransactionRequest) (*models.Transaction, error) {
	normalize(&req)
	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:               userID,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		CategoryID:           req.CategoryID,
		Description:          req.Description,
		Amount:               req.Amount,
		Date:                 req.Date,
		Type:                 req.Type,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction %s created for user %s: %s %.2f", transaction.ID, userID, transaction.Type, transaction.Amount)
	return transaction, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

func (s *TransactionService) Update(ctx context.Context, userID, transactionID uuid.UUID, req models.TransactionRequest) (*models.Transaction, error) {
	existing, err := s.ownedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	normalize(&req)
	if err := s.validate(ctx, userID, &req); err != nil {
		return nil, err
	}

	existing.AccountID = req.AccountID
	existing.DestinationAccountID = req.DestinationAccountID
	existing.CategoryID = req.CategoryID
	existing.Description = req.Description
	existing.Amount = req.Amount
	existing.Date = req.Date
	existing.Type = req.Type

	if err := s.transactions.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return existing, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	if _, err := s.ownedTransaction(ctx, userID, transactionID); err != nil {
		return err
	}
	return s.transactions.Delete(ctx, transactionID)
}

func (s *TransactionService) ownedTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, ErrNotOwned
	}
	return transaction, nil
}

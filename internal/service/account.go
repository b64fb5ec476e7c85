package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/utils"
)

// AccountService handles money account management
type AccountService struct {
	accounts   repository.AccountRepository
	hmacSecret string
	log        *logrus.Logger
}

func NewAccountService(accounts repository.AccountRepository, hmacSecret string, log *logrus.Logger) *AccountService {
	return &AccountService{accounts: accounts, hmacSecret: hmacSecret, log: log}
}

func validAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeChecking, models.AccountTypeSavings, models.AccountTypeCash, models.AccountTypeCreditCard:
		return true
	}
	return false
}

// Create creates a new account for the user. Credit card accounts must
// carry their billing-cycle days; an optional card number is validated,
// masked to its last four digits and fingerprinted before storage.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, req models.CreateAccountRequest) (*models.Account, error) {
	if req.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if !validAccountType(req.Type) {
		return nil, validationErr("type", "unknown account type %q", req.Type)
	}

	account := &models.Account{
		UserID:  userID,
		Name:    req.Name,
		Type:    req.Type,
		Balance: req.Balance,
	}

	if req.Type == models.AccountTypeCreditCard {
		if req.StatementCutoffDay < 1 || req.StatementCutoffDay > 31 {
			return nil, validationErr("statement_cutoff_day", "must be 1-31, got %d", req.StatementCutoffDay)
		}
		if req.PaymentDueDay < 1 || req.PaymentDueDay > 31 {
			return nil, validationErr("payment_due_day", "must be 1-31, got %d", req.PaymentDueDay)
		}
		account.CreditLimit = req.CreditLimit
		account.StatementCutoffDay = req.StatementCutoffDay
		account.PaymentDueDay = req.PaymentDueDay

		if req.CardNumber != "" {
			if err := utils.ValidateCardNumber(req.CardNumber); err != nil {
				return nil, validationErr("card_number", "%v", err)
			}
			account.LastFourDigits = utils.LastFourDigits(req.CardNumber)
			account.CardFingerprint = utils.CardFingerprint(req.CardNumber, s.hmacSecret)
		}
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account %s created for user %s (%s)", account.ID, userID, account.Type)
	return account, nil
}

// List returns all accounts of the user
func (s *AccountService) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// Update changes an account's editable fields
func (s *AccountService) Update(ctx context.Context, userID, accountID uuid.UUID, req models.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	account.Name = req.Name
	account.Balance = req.Balance
	if account.Type == models.AccountTypeCreditCard {
		account.CreditLimit = req.CreditLimit
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// Delete removes an account
func (s *AccountService) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.log.Infof("Account %s deleted for user %s", accountID, userID)
	return nil
}

func (s *AccountService) ownedAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, ErrNotOwned
	}
	return account, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wezzertop/zafinan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AccountRepository defines persistence operations for accounts
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines persistence operations for ledger
// transactions. The debt engine only ever creates and deletes entries;
// list/update serve the transactions CRUD surface.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	ListByUserAndPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecurringTransactionRepository defines persistence operations for
// recurring ledger-entry templates.
type RecurringTransactionRepository interface {
	Create(ctx context.Context, recurring *models.RecurringTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error)
	Update(ctx context.Context, recurring *models.RecurringTransaction) error
	SetNextDueDate(ctx context.Context, id uuid.UUID, nextDue time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseRepository defines persistence operations for monthly purchases
// and their installments.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.MonthlyPurchase) error
	CreatePayments(ctx context.Context, payments []models.PurchasePayment) error
	// Delete removes the bare purchase record. Used only as the
	// compensating write when installment persistence fails mid-creation.
	Delete(ctx context.Context, id uuid.UUID) error
	// CascadeDelete removes the purchase, its installments and any
	// transactions they reference via the external cascade procedure.
	CascadeDelete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MonthlyPurchase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPurchase, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdatePurchaseRequest) error
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.PurchasePayment, error)
	MarkPaymentPaid(ctx context.Context, paymentID, transactionID uuid.UUID) error
	MarkPaymentPending(ctx context.Context, paymentID uuid.UUID) error
	ListDueReminders(ctx context.Context, by time.Time) ([]models.PaymentReminder, error)
}

// LoanRepository defines persistence operations for loans, their
// installments and principal prepayments, plus the external procedures
// bound at the persistence boundary.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	CreatePayments(ctx context.Context, payments []models.LoanPayment) error
	// Delete removes the bare loan record (compensating write).
	Delete(ctx context.Context, id uuid.UUID) error
	CascadeDelete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateLoanRequest) error
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.LoanPayment, error)
	MarkPaymentPaid(ctx context.Context, paymentID, transactionID uuid.UUID) error
	MarkPaymentPending(ctx context.Context, paymentID uuid.UUID) error
	CreatePrincipalPayment(ctx context.Context, payment *models.LoanPrincipalPayment) error
	GetPrincipalPayment(ctx context.Context, id uuid.UUID) (*models.LoanPrincipalPayment, error)
	// CascadeRevertPrincipalPayment deletes a prepayment together with its
	// transaction and, if it was already applied, undoes the schedule
	// mutation through the external cascade procedure.
	CascadeRevertPrincipalPayment(ctx context.Context, id uuid.UUID) error
	// Recalculate runs the external recalculation procedure: applies all
	// unapplied prepayments to principal as of asOf and rewrites the
	// remaining pending installments under the given strategy.
	Recalculate(ctx context.Context, loanID uuid.UUID, asOf time.Time, strategy models.RecalculationStrategy) error
	ListDueReminders(ctx context.Context, by time.Time) ([]models.PaymentReminder, error)
}

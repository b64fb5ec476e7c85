package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wezzertop/zafinan/internal/models"
)

// PostgresTransactionRepository persists ledger transactions in PostgreSQL
type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, user_id, account_id, destination_account_id, category_id,
	       description, amount, date, type, created_at`

func (r *PostgresTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, account_id, destination_account_id,
		                          category_id, description, amount, date, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.UserID,
		transaction.AccountID,
		transaction.DestinationAccountID,
		transaction.CategoryID,
		transaction.Description,
		transaction.Amount,
		transaction.Date,
		transaction.Type,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1`
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (r *PostgresTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresTransactionRepository) ListByUserAndPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC`
	return r.list(ctx, query, userID, from, to)
}

func (r *PostgresTransactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1,
		    destination_account_id = $2,
		    category_id = $3,
		    description = $4,
		    amount = $5,
		    date = $6,
		    type = $7
		WHERE id = $8`
	res, err := r.db.ExecContext(
		ctx,
		query,
		transaction.AccountID,
		transaction.DestinationAccountID,
		transaction.CategoryID,
		transaction.Description,
		transaction.Amount,
		transaction.Date,
		transaction.Type,
		transaction.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresTransactionRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.AccountID,
		&transaction.DestinationAccountID,
		&transaction.CategoryID,
		&transaction.Description,
		&transaction.Amount,
		&transaction.Date,
		&transaction.Type,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

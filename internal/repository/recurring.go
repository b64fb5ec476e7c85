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

// PostgresRecurringTransactionRepository persists recurring ledger-entry
// templates in PostgreSQL
type PostgresRecurringTransactionRepository struct {
	db *sql.DB
}

func NewPostgresRecurringTransactionRepository(db *sql.DB) *PostgresRecurringTransactionRepository {
	return &PostgresRecurringTransactionRepository{db: db}
}

const recurringColumns = `id, user_id, account_id, destination_account_id, category_id,
	       description, amount, type, frequency, start_date, next_due_date,
	       created_at, updated_at`

func (r *PostgresRecurringTransactionRepository) Create(ctx context.Context, recurring *models.RecurringTransaction) error {
	query := `
		INSERT INTO recurring_transactions (user_id, account_id, destination_account_id,
		                                    category_id, description, amount, type,
		                                    frequency, start_date, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		recurring.UserID,
		recurring.AccountID,
		recurring.DestinationAccountID,
		recurring.CategoryID,
		recurring.Description,
		recurring.Amount,
		recurring.Type,
		recurring.Frequency,
		recurring.StartDate,
		recurring.NextDueDate,
	).Scan(&recurring.ID, &recurring.CreatedAt, &recurring.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create recurring transaction: %w", err)
	}
	return nil
}

func (r *PostgresRecurringTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE id = $1`
	recurring, err := scanRecurring(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring transaction: %w", err)
	}
	return recurring, nil
}

func (r *PostgresRecurringTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE user_id = $1
		ORDER BY next_due_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []models.RecurringTransaction
	for rows.Next() {
		recurring, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring transaction: %w", err)
		}
		out = append(out, *recurring)
	}
	return out, rows.Err()
}

func (r *PostgresRecurringTransactionRepository) Update(ctx context.Context, recurring *models.RecurringTransaction) error {
	query := `
		UPDATE recurring_transactions
		SET account_id = $1,
		    destination_account_id = $2,
		    category_id = $3,
		    description = $4,
		    amount = $5,
		    type = $6,
		    frequency = $7,
		    start_date = $8,
		    next_due_date = $9,
		    updated_at = NOW()
		WHERE id = $10`
	res, err := r.db.ExecContext(
		ctx,
		query,
		recurring.AccountID,
		recurring.DestinationAccountID,
		recurring.CategoryID,
		recurring.Description,
		recurring.Amount,
		recurring.Type,
		recurring.Frequency,
		recurring.StartDate,
		recurring.NextDueDate,
		recurring.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRecurringTransactionRepository) SetNextDueDate(ctx context.Context, id uuid.UUID, nextDue time.Time) error {
	query := `
		UPDATE recurring_transactions
		SET next_due_date = $1, updated_at = NOW()
		WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, nextDue, id)
	if err != nil {
		return fmt.Errorf("failed to advance recurring transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRecurringTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring transaction: %w", err)
	}
	return requireAffected(res)
}

func scanRecurring(row rowScanner) (*models.RecurringTransaction, error) {
	recurring := &models.RecurringTransaction{}
	err := row.Scan(
		&recurring.ID,
		&recurring.UserID,
		&recurring.AccountID,
		&recurring.DestinationAccountID,
		&recurring.CategoryID,
		&recurring.Description,
		&recurring.Amount,
		&recurring.Type,
		&recurring.Frequency,
		&recurring.StartDate,
		&recurring.NextDueDate,
		&recurring.CreatedAt,
		&recurring.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return recurring, nil
}

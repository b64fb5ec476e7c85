package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wezzertop/zafinan/internal/models"
)

// PostgresAccountRepository persists accounts in PostgreSQL
type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, type, balance, credit_limit,
		                      statement_cutoff_day, payment_due_day,
		                      last_four_digits, card_fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.Name,
		account.Type,
		account.Balance,
		account.CreditLimit,
		nullableDay(account.StatementCutoffDay),
		nullableDay(account.PaymentDueDay),
		nullableString(account.LastFourDigits),
		nullableString(account.CardFingerprint),
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	var cutoffDay, dueDay sql.NullInt64
	var lastFour, fingerprint sql.NullString
	query := `
		SELECT id, user_id, name, type, balance, credit_limit,
		       statement_cutoff_day, payment_due_day,
		       last_four_digits, card_fingerprint,
		       created_at, updated_at
		FROM accounts
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Balance,
		&account.CreditLimit,
		&cutoffDay,
		&dueDay,
		&lastFour,
		&fingerprint,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.StatementCutoffDay = int(cutoffDay.Int64)
	account.PaymentDueDay = int(dueDay.Int64)
	account.LastFourDigits = lastFour.String
	account.CardFingerprint = fingerprint.String
	return account, nil
}

func (r *PostgresAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, type, balance, credit_limit,
		       statement_cutoff_day, payment_due_day,
		       last_four_digits, card_fingerprint,
		       created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var cutoffDay, dueDay sql.NullInt64
		var lastFour, fingerprint sql.NullString
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Name,
			&account.Type,
			&account.Balance,
			&account.CreditLimit,
			&cutoffDay,
			&dueDay,
			&lastFour,
			&fingerprint,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.StatementCutoffDay = int(cutoffDay.Int64)
		account.PaymentDueDay = int(dueDay.Int64)
		account.LastFourDigits = lastFour.String
		account.CardFingerprint = fingerprint.String
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1,
		    balance = $2,
		    credit_limit = $3,
		    updated_at = NOW()
		WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, account.Name, account.Balance, account.CreditLimit, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireAffected(res)
}

// nullableDay maps the zero value to NULL so billing-cycle columns stay
// NULL for non-card accounts.
func nullableDay(day int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(day), Valid: day != 0}
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireAffected turns a zero-row write into ErrNotFound
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

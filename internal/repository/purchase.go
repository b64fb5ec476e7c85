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

// PostgresPurchaseRepository persists monthly purchases and their
// installments in PostgreSQL. Cascading deletes run through a database
// procedure so installments and their transactions disappear atomically.
type PostgresPurchaseRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseRepository(db *sql.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

func (r *PostgresPurchaseRepository) Create(ctx context.Context, purchase *models.MonthlyPurchase) error {
	query := `
		INSERT INTO monthly_purchases (user_id, account_id, category_id, description,
		                               total_amount, installments_count, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		purchase.UserID,
		purchase.AccountID,
		purchase.CategoryID,
		purchase.Description,
		purchase.TotalAmount,
		purchase.InstallmentsCount,
		purchase.PurchaseDate,
	).Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// CreatePayments inserts the installment rows in one database transaction:
// either the whole schedule lands or none of it does.
func (r *PostgresPurchaseRepository) CreatePayments(ctx context.Context, payments []models.PurchasePayment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO purchase_payments (purchase_id, payment_number, due_date, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	for i := range payments {
		p := &payments[i]
		err := tx.QueryRowContext(ctx, query, p.PurchaseID, p.PaymentNumber, p.DueDate, p.Amount, p.Status).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create installment %d: %w", p.PaymentNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit installments: %w", err)
	}
	return nil
}

func (r *PostgresPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monthly_purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPurchaseRepository) CascadeDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `SELECT cascade_delete_purchase($1)`, id); err != nil {
		return fmt.Errorf("failed to cascade delete purchase: %w", err)
	}
	return nil
}

func (r *PostgresPurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MonthlyPurchase, error) {
	purchase := &models.MonthlyPurchase{}
	query := `
		SELECT id, user_id, account_id, category_id, description,
		       total_amount, installments_count, purchase_date, created_at, updated_at
		FROM monthly_purchases
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.AccountID,
		&purchase.CategoryID,
		&purchase.Description,
		&purchase.TotalAmount,
		&purchase.InstallmentsCount,
		&purchase.PurchaseDate,
		&purchase.CreatedAt,
		&purchase.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	purchase.Payments, err = r.listPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *PostgresPurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPurchase, error) {
	query := `
		SELECT id, user_id, account_id, category_id, description,
		       total_amount, installments_count, purchase_date, created_at, updated_at
		FROM monthly_purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.MonthlyPurchase
	for rows.Next() {
		var purchase models.MonthlyPurchase
		if err := rows.Scan(
			&purchase.ID,
			&purchase.UserID,
			&purchase.AccountID,
			&purchase.CategoryID,
			&purchase.Description,
			&purchase.TotalAmount,
			&purchase.InstallmentsCount,
			&purchase.PurchaseDate,
			&purchase.CreatedAt,
			&purchase.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range purchases {
		purchases[i].Payments, err = r.listPayments(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return purchases, nil
}

func (r *PostgresPurchaseRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdatePurchaseRequest) error {
	query := `
		UPDATE monthly_purchases
		SET description = $1,
		    category_id = $2,
		    updated_at = NOW()
		WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, req.Description, req.CategoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPurchaseRepository) GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.PurchasePayment, error) {
	payment := &models.PurchasePayment{}
	query := `
		SELECT id, purchase_id, payment_number, due_date, amount, status, transaction_id, created_at, updated_at
		FROM purchase_payments
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.ID,
		&payment.PurchaseID,
		&payment.PaymentNumber,
		&payment.DueDate,
		&payment.Amount,
		&payment.Status,
		&payment.TransactionID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return payment, nil
}

func (r *PostgresPurchaseRepository) MarkPaymentPaid(ctx context.Context, paymentID, transactionID uuid.UUID) error {
	query := `
		UPDATE purchase_payments
		SET status = 'paid',
		    transaction_id = $1,
		    updated_at = NOW()
		WHERE id = $2 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, transactionID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark installment paid: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPurchaseRepository) MarkPaymentPending(ctx context.Context, paymentID uuid.UUID) error {
	query := `
		UPDATE purchase_payments
		SET status = 'pending',
		    transaction_id = NULL,
		    updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, paymentID)
	if err != nil {
		return fmt.Errorf("failed to reset installment: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPurchaseRepository) ListDueReminders(ctx context.Context, by time.Time) ([]models.PaymentReminder, error) {
	query := `
		SELECT u.email, mp.description, pp.due_date, pp.amount, pp.due_date < NOW()
		FROM purchase_payments pp
		JOIN monthly_purchases mp ON mp.id = pp.purchase_id
		JOIN users u ON u.id = mp.user_id
		WHERE pp.status = 'pending' AND pp.due_date <= $1
		ORDER BY pp.due_date`
	rows, err := r.db.QueryContext(ctx, query, by)
	if err != nil {
		return nil, fmt.Errorf("failed to query due installments: %w", err)
	}
	defer rows.Close()

	var reminders []models.PaymentReminder
	for rows.Next() {
		var reminder models.PaymentReminder
		if err := rows.Scan(&reminder.UserEmail, &reminder.Description, &reminder.DueDate, &reminder.Amount, &reminder.Overdue); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func (r *PostgresPurchaseRepository) listPayments(ctx context.Context, purchaseID uuid.UUID) ([]models.PurchasePayment, error) {
	query := `
		SELECT id, purchase_id, payment_number, due_date, amount, status, transaction_id, created_at, updated_at
		FROM purchase_payments
		WHERE purchase_id = $1
		ORDER BY payment_number`
	rows, err := r.db.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var payments []models.PurchasePayment
	for rows.Next() {
		var payment models.PurchasePayment
		if err := rows.Scan(
			&payment.ID,
			&payment.PurchaseID,
			&payment.PaymentNumber,
			&payment.DueDate,
			&payment.Amount,
			&payment.Status,
			&payment.TransactionID,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

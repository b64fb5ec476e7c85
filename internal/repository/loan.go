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

// PostgresLoanRepository persists loans, installments and principal
// prepayments in PostgreSQL. Schedule recalculation and cascading
// deletes/reverts run through database procedures so their multi-row
// rewrites stay atomic.
type PostgresLoanRepository struct {
	db *sql.DB
}

func NewPostgresLoanRepository(db *sql.DB) *PostgresLoanRepository {
	return &PostgresLoanRepository{db: db}
}

func (r *PostgresLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (user_id, description, issuing_institution, initial_amount,
		                   interest_rate, term_months, start_date, payment_day_of_month, late_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		loan.UserID,
		loan.Description,
		loan.IssuingInstitution,
		loan.InitialAmount,
		loan.InterestRate,
		loan.TermMonths,
		loan.StartDate,
		loan.PaymentDayOfMonth,
		loan.LateFee,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// CreatePayments inserts the amortization rows in one database
// transaction: either the whole schedule lands or none of it does.
func (r *PostgresLoanRepository) CreatePayments(ctx context.Context, payments []models.LoanPayment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO loan_payments (loan_id, payment_number, due_date, payment_amount,
		                           principal_amount, interest_amount, remaining_balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	for i := range payments {
		p := &payments[i]
		err := tx.QueryRowContext(
			ctx,
			query,
			p.LoanID,
			p.PaymentNumber,
			p.DueDate,
			p.PaymentAmount,
			p.PrincipalAmount,
			p.InterestAmount,
			p.RemainingBalance,
			p.Status,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create installment %d: %w", p.PaymentNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit installments: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresLoanRepository) CascadeDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `SELECT cascade_delete_loan($1)`, id); err != nil {
		return fmt.Errorf("failed to cascade delete loan: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		SELECT id, user_id, description, issuing_institution, initial_amount,
		       interest_rate, term_months, start_date, payment_day_of_month, late_fee,
		       created_at, updated_at
		FROM loans
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loan.ID,
		&loan.UserID,
		&loan.Description,
		&loan.IssuingInstitution,
		&loan.InitialAmount,
		&loan.InterestRate,
		&loan.TermMonths,
		&loan.StartDate,
		&loan.PaymentDayOfMonth,
		&loan.LateFee,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	loan.Payments, err = r.listPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.PrincipalPayments, err = r.listPrincipalPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *PostgresLoanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error) {
	query := `
		SELECT id
		FROM loans
		WHERE user_id = $1
		ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan loan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var loans []models.Loan
	for _, id := range ids {
		loan, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, nil
}

func (r *PostgresLoanRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateLoanRequest) error {
	query := `
		UPDATE loans
		SET description = $1,
		    issuing_institution = $2,
		    late_fee = $3,
		    updated_at = NOW()
		WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, req.Description, req.IssuingInstitution, req.LateFee, id)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresLoanRepository) GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.LoanPayment, error) {
	payment := &models.LoanPayment{}
	query := `
		SELECT id, loan_id, payment_number, due_date, payment_amount, principal_amount,
		       interest_amount, remaining_balance, status, transaction_id, created_at, updated_at
		FROM loan_payments
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.PaymentNumber,
		&payment.DueDate,
		&payment.PaymentAmount,
		&payment.PrincipalAmount,
		&payment.InterestAmount,
		&payment.RemainingBalance,
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

func (r *PostgresLoanRepository) MarkPaymentPaid(ctx context.Context, paymentID, transactionID uuid.UUID) error {
	query := `
		UPDATE loan_payments
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

func (r *PostgresLoanRepository) MarkPaymentPending(ctx context.Context, paymentID uuid.UUID) error {
	query := `
		UPDATE loan_payments
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

func (r *PostgresLoanRepository) CreatePrincipalPayment(ctx context.Context, payment *models.LoanPrincipalPayment) error {
	query := `
		INSERT INTO loan_principal_payments (loan_id, amount, payment_date, transaction_id, is_applied)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.LoanID,
		payment.Amount,
		payment.PaymentDate,
		payment.TransactionID,
		payment.IsApplied,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create principal prepayment: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) GetPrincipalPayment(ctx context.Context, id uuid.UUID) (*models.LoanPrincipalPayment, error) {
	payment := &models.LoanPrincipalPayment{}
	query := `
		SELECT id, loan_id, amount, payment_date, transaction_id, is_applied, created_at
		FROM loan_principal_payments
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.Amount,
		&payment.PaymentDate,
		&payment.TransactionID,
		&payment.IsApplied,
		&payment.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal prepayment: %w", err)
	}
	return payment, nil
}

func (r *PostgresLoanRepository) CascadeRevertPrincipalPayment(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `SELECT cascade_revert_principal_payment($1)`, id); err != nil {
		return fmt.Errorf("failed to revert principal prepayment: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) Recalculate(ctx context.Context, loanID uuid.UUID, asOf time.Time, strategy models.RecalculationStrategy) error {
	if _, err := r.db.ExecContext(ctx, `SELECT recalculate_loan($1, $2, $3)`, loanID, asOf, string(strategy)); err != nil {
		return fmt.Errorf("failed to recalculate loan: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) ListDueReminders(ctx context.Context, by time.Time) ([]models.PaymentReminder, error) {
	query := `
		SELECT u.email, l.description, lp.due_date, lp.payment_amount, lp.due_date < NOW()
		FROM loan_payments lp
		JOIN loans l ON l.id = lp.loan_id
		JOIN users u ON u.id = l.user_id
		WHERE lp.status = 'pending' AND lp.due_date <= $1
		ORDER BY lp.due_date`
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

func (r *PostgresLoanRepository) listPayments(ctx context.Context, loanID uuid.UUID) ([]models.LoanPayment, error) {
	query := `
		SELECT id, loan_id, payment_number, due_date, payment_amount, principal_amount,
		       interest_amount, remaining_balance, status, transaction_id, created_at, updated_at
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY payment_number`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var payments []models.LoanPayment
	for rows.Next() {
		var payment models.LoanPayment
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.PaymentNumber,
			&payment.DueDate,
			&payment.PaymentAmount,
			&payment.PrincipalAmount,
			&payment.InterestAmount,
			&payment.RemainingBalance,
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

func (r *PostgresLoanRepository) listPrincipalPayments(ctx context.Context, loanID uuid.UUID) ([]models.LoanPrincipalPayment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date, transaction_id, is_applied, created_at
		FROM loan_principal_payments
		WHERE loan_id = $1
		ORDER BY payment_date`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query principal prepayments: %w", err)
	}
	defer rows.Close()

	var payments []models.LoanPrincipalPayment
	for rows.Next() {
		var payment models.LoanPrincipalPayment
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.TransactionID,
			&payment.IsApplied,
			&payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan principal prepayment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

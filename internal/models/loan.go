package models

import (
	"time"

	"github.com/google/uuid"
)

// RecalculationStrategy selects how an applied principal prepayment
// reshapes the remaining amortization schedule.
type RecalculationStrategy string

const (
	// StrategyReduceTerm keeps the monthly payment and shortens the
	// remaining term.
	StrategyReduceTerm RecalculationStrategy = "reduce_term"
	// StrategyReducePayment keeps the remaining term and lowers the
	// monthly payment.
	StrategyReducePayment RecalculationStrategy = "reduce_payment"
)

// Loan represents an interest-bearing loan amortized with fixed monthly
// payments
type Loan struct {
	ID                 uuid.UUID              `json:"id"`
	UserID             uuid.UUID              `json:"user_id"`
	Description        string                 `json:"description"`
	IssuingInstitution string                 `json:"issuing_institution"`
	InitialAmount      float64                `json:"initial_amount"`
	InterestRate       float64                `json:"interest_rate"` // annual, percent
	TermMonths         int                    `json:"term_months"`
	StartDate          time.Time              `json:"start_date"`
	PaymentDayOfMonth  int                    `json:"payment_day_of_month"` // 1-28
	LateFee            float64                `json:"late_fee"`
	Payments           []LoanPayment          `json:"loan_payments,omitempty"`
	PrincipalPayments  []LoanPrincipalPayment `json:"loan_principal_payments,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// LoanPayment is one scheduled installment with its principal/interest
// split and the balance remaining after it.
type LoanPayment struct {
	ID               uuid.UUID     `json:"id"`
	LoanID           uuid.UUID     `json:"loan_id"`
	PaymentNumber    int           `json:"payment_number"`
	DueDate          time.Time     `json:"due_date"`
	PaymentAmount    float64       `json:"payment_amount"`
	PrincipalAmount  float64       `json:"principal_amount"`
	InterestAmount   float64       `json:"interest_amount"`
	RemainingBalance float64       `json:"remaining_balance"`
	Status           PaymentStatus `json:"status"`
	TransactionID    *uuid.UUID    `json:"transaction_id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// PaymentState reports the installment's position in the payment state
// machine.
func (p *LoanPayment) PaymentState() PaymentState {
	return paymentState(p.Status, p.TransactionID)
}

// LoanPrincipalPayment is an advance lump-sum payment toward principal.
// It stays unapplied until a recalculation folds it into the schedule.
type LoanPrincipalPayment struct {
	ID            uuid.UUID  `json:"id"`
	LoanID        uuid.UUID  `json:"loan_id"`
	Amount        float64    `json:"amount"`
	PaymentDate   time.Time  `json:"payment_date"`
	TransactionID *uuid.UUID `json:"transaction_id"`
	IsApplied     bool       `json:"is_applied"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CreateLoanRequest struct {
	Description        string    `json:"description"`
	IssuingInstitution string    `json:"issuing_institution"`
	InitialAmount      float64   `json:"initial_amount"`
	InterestRate       float64   `json:"interest_rate"`
	TermMonths         int       `json:"term_months"`
	StartDate          time.Time `json:"start_date"`
	PaymentDayOfMonth  int       `json:"payment_day_of_month"`
	LateFee            float64   `json:"late_fee"`
}

// UpdateLoanRequest covers the only fields editable after creation.
type UpdateLoanRequest struct {
	Description        string  `json:"description"`
	IssuingInstitution string  `json:"issuing_institution"`
	LateFee            float64 `json:"late_fee"`
}

type PrincipalPaymentRequest struct {
	NumPayments   int       `json:"num_payments"`
	FromAccountID uuid.UUID `json:"from_account_id"`
}

type RecalculateRequest struct {
	Strategy RecalculationStrategy `json:"strategy"`
}

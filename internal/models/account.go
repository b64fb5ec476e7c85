package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCreditCard AccountType = "credit_card"
)

// Account represents a money account. Credit card accounts additionally
// carry the billing-cycle configuration used to schedule installment
// purchases.
type Account struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	Name               string      `json:"name"`
	Type               AccountType `json:"type"`
	Balance            float64     `json:"balance"`
	CreditLimit        float64     `json:"credit_limit,omitempty"`
	StatementCutoffDay int         `json:"statement_cutoff_day,omitempty"` // 1-31, credit_card only
	PaymentDueDay      int         `json:"payment_due_day,omitempty"`      // 1-31, credit_card only
	LastFourDigits     string      `json:"last_four_digits,omitempty"`
	CardFingerprint    string      `json:"-"` // HMAC of the full card number, never serialized
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type CreateAccountRequest struct {
	Name               string      `json:"name"`
	Type               AccountType `json:"type"`
	Balance            float64     `json:"balance"`
	CreditLimit        float64     `json:"credit_limit"`
	StatementCutoffDay int         `json:"statement_cutoff_day"`
	PaymentDueDay      int         `json:"payment_due_day"`
	CardNumber         string      `json:"card_number,omitempty"` // optional, masked before storage
}

type UpdateAccountRequest struct {
	Name        string  `json:"name"`
	Balance     float64 `json:"balance"`
	CreditLimit float64 `json:"credit_limit"`
}

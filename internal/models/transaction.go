package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a ledger entry. Transfers carry a destination
// account and no category; income/expense carry a category and no
// destination.
type Transaction struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	AccountID            uuid.UUID       `json:"account_id"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id"`
	CategoryID           *uuid.UUID      `json:"category_id"`
	Description          string          `json:"description"`
	Amount               float64         `json:"amount"`
	Date                 time.Time       `json:"date"`
	Type                 TransactionType `json:"type"`
	CreatedAt            time.Time       `json:"created_at"`
}

type TransactionRequest struct {
	AccountID            uuid.UUID       `json:"account_id"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id"`
	CategoryID           *uuid.UUID      `json:"category_id"`
	Description          string          `json:"description"`
	Amount               float64         `json:"amount"`
	Date                 time.Time       `json:"date"`
	Type                 TransactionType `json:"type"`
}

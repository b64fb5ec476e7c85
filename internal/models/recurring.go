package models

import (
	"time"

	"github.com/google/uuid"
)

type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
	FrequencyYearly  RecurrenceFrequency = "yearly"
)

// RecurringTransaction is a template for ledger entries posted on a
// schedule. Executing it writes one transaction and advances NextDueDate
// by the frequency; the template itself never appears in the ledger.
type RecurringTransaction struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"user_id"`
	AccountID            uuid.UUID           `json:"account_id"`
	DestinationAccountID *uuid.UUID          `json:"destination_account_id"`
	CategoryID           *uuid.UUID          `json:"category_id"`
	Description          string              `json:"description"`
	Amount               float64             `json:"amount"`
	Type                 TransactionType     `json:"type"`
	Frequency            RecurrenceFrequency `json:"frequency"`
	StartDate            time.Time           `json:"start_date"`
	NextDueDate          time.Time           `json:"next_due_date"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

type RecurringTransactionRequest struct {
	AccountID            uuid.UUID           `json:"account_id"`
	DestinationAccountID *uuid.UUID          `json:"destination_account_id"`
	CategoryID           *uuid.UUID          `json:"category_id"`
	Description          string              `json:"description"`
	Amount               float64             `json:"amount"`
	Type                 TransactionType     `json:"type"`
	Frequency            RecurrenceFrequency `json:"frequency"`
	StartDate            time.Time           `json:"start_date"`
}

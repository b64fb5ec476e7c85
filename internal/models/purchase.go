package models

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyPurchase represents a fixed-installment credit card purchase
type MonthlyPurchase struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"user_id"`
	AccountID         uuid.UUID         `json:"account_id"` // credit_card account
	CategoryID        uuid.UUID         `json:"category_id"`
	Description       string            `json:"description"`
	TotalAmount       float64           `json:"total_amount"`
	InstallmentsCount int               `json:"installments_count"`
	PurchaseDate      time.Time         `json:"purchase_date"`
	Payments          []PurchasePayment `json:"monthly_payments,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// PurchasePayment is one scheduled installment of a monthly purchase
type PurchasePayment struct {
	ID            uuid.UUID     `json:"id"`
	PurchaseID    uuid.UUID     `json:"purchase_id"`
	PaymentNumber int           `json:"payment_number"` // 1..N, chronological
	DueDate       time.Time     `json:"due_date"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	TransactionID *uuid.UUID    `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PaymentState reports the installment's position in the payment state
// machine.
func (p *PurchasePayment) PaymentState() PaymentState {
	return paymentState(p.Status, p.TransactionID)
}

type CreatePurchaseRequest struct {
	AccountID         uuid.UUID `json:"account_id"`
	CategoryID        uuid.UUID `json:"category_id"`
	Description       string    `json:"description"`
	TotalAmount       float64   `json:"total_amount"`
	InstallmentsCount int       `json:"installments_count"`
	PurchaseDate      time.Time `json:"purchase_date"`
}

// UpdatePurchaseRequest covers the only fields editable after creation;
// amounts and schedule are fixed once generated.
type UpdatePurchaseRequest struct {
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
}

package models

import "github.com/google/uuid"

// PaymentStatus is the persisted installment status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentState is the full installment state. The persisted form keeps a
// two-value status plus a nullable transaction reference; the tagged
// variant makes the distinction between a user-initiated payment and one
// covered by an applied principal prepayment explicit, so transitions can
// be matched exhaustively instead of inferred from a nil check.
type PaymentState int

const (
	// StatePending - not yet paid, no transaction reference.
	StatePending PaymentState = iota
	// StatePaidDirect - paid by the user, backed by a ledger transaction.
	StatePaidDirect
	// StatePaidByPrepayment - covered by an applied principal prepayment,
	// no transaction of its own. Terminal.
	StatePaidByPrepayment
)

func (s PaymentState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StatePaidDirect:
		return "paid"
	case StatePaidByPrepayment:
		return "covered_by_prepayment"
	}
	return "unknown"
}

func paymentState(status PaymentStatus, txID *uuid.UUID) PaymentState {
	if status != PaymentStatusPaid {
		return StatePending
	}
	if txID != nil {
		return StatePaidDirect
	}
	return StatePaidByPrepayment
}

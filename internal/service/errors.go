package service

import (
	"errors"
	"fmt"
)

var (
	// ErrScheduleGenerationFailed signals that installment persistence
	// failed after the instrument record was created; the instrument has
	// already been removed by a compensating delete when this is returned.
	ErrScheduleGenerationFailed = errors.New("schedule generation failed")

	// ErrPaymentOrderViolation signals a pay attempt on an installment
	// that is not the earliest pending one of its instrument.
	ErrPaymentOrderViolation = errors.New("an earlier installment is still pending")

	// ErrNoRevertibleTransaction signals a revert attempt on an
	// installment that has no ledger transaction of its own, either
	// because it is still pending or because an applied prepayment
	// covered it.
	ErrNoRevertibleTransaction = errors.New("installment has no revertible transaction")

	// ErrNotOwned signals access to a resource owned by another user.
	ErrNotOwned = errors.New("resource does not belong to user")
)

// ValidationError reports malformed or missing required input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

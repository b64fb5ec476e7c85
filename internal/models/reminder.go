package models

import "time"

// PaymentReminder is one upcoming or overdue installment joined with the
// owning user's email, used by the reminder job.
type PaymentReminder struct {
	UserEmail   string
	Description string
	DueDate     time.Time
	Amount      float64
	Overdue     bool
}

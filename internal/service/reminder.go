package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// ReminderSender delivers a payment reminder to a user
type ReminderSender interface {
	SendPaymentReminder(to, description string, dueDate time.Time, amount float64, overdue bool) error
}

// ReminderService finds installments that are due soon or overdue and
// notifies their owners. Driven by the cron scheduler in cmd/api.
type ReminderService struct {
	purchases repository.PurchaseRepository
	loans     repository.LoanRepository
	sender    ReminderSender
	horizon   time.Duration
	log       *logrus.Logger
}

func NewReminderService(
	purchases repository.PurchaseRepository,
	loans repository.LoanRepository,
	sender ReminderSender,
	horizon time.Duration,
	log *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		purchases: purchases,
		loans:     loans,
		sender:    sender,
		horizon:   horizon,
		log:       log,
	}
}

// Run scans for pending installments due within the horizon (or already
// past due) and sends one reminder each. Send failures are logged and do
// not stop the scan.
func (s *ReminderService) Run(ctx context.Context) error {
	by := time.Now().Add(s.horizon)

	purchaseDue, err := s.purchases.ListDueReminders(ctx, by)
	if err != nil {
		return err
	}
	loanDue, err := s.loans.ListDueReminders(ctx, by)
	if err != nil {
		return err
	}

	reminders := append(purchaseDue, loanDue...)
	s.log.Infof("Reminder run: %d installments due by %s", len(reminders), by.Format("2006-01-02"))

	for _, r := range reminders {
		if err := s.send(r); err != nil {
			s.log.WithError(err).Errorf("Failed to send reminder to %s", r.UserEmail)
		}
	}
	return nil
}

func (s *ReminderService) send(r models.PaymentReminder) error {
	return s.sender.SendPaymentReminder(r.UserEmail, r.Description, r.DueDate, r.Amount, r.Overdue)
}

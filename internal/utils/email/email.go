package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/config"
)

// Sender delivers payment reminder emails via SMTP
type Sender struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewSender(cfg *config.Config, log *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// SendPaymentReminder notifies a user about an upcoming or overdue
// installment.
func (s *Sender) SendPaymentReminder(to, description string, dueDate time.Time, amount float64, overdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if overdue {
		e.Subject = "Overdue Payment Notification"
	} else {
		e.Subject = "Upcoming Payment Reminder"
	}

	var body string
	if overdue {
		body = fmt.Sprintf(
			"Your payment of %.2f for %q was due on %s and is now overdue.\n"+
				"Please make the payment as soon as possible.\n",
			amount, description, dueDate.Format("2006-01-02"),
		)
	} else {
		body = fmt.Sprintf(
			"This is a reminder that your payment of %.2f for %q is due on %s.\n"+
				"Please ensure sufficient funds are available.\n",
			amount, description, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nZafinan"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.log.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

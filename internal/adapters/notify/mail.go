package notify

import (
	"context"
	"fmt"

	"payments-api/internal/config"
	"payments-api/internal/core/domain"

	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier sends notifications as plain-text email over SMTP
type MailNotifier struct {
	sender mailSender
	from   string
}

// NewMailNotifier creates an SMTP notifier from config
func NewMailNotifier(cfg config.MailConfig) *MailNotifier {
	return &MailNotifier{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Notify sends msg to msg.Address
func (n *MailNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.Address == "" {
		return fmt.Errorf("mail notification %s has no recipient", msg.Key)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.Address)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@payments-api>", msg.Key))
	m.SetBody("text/plain", msg.Body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.Address, err)
	}
	return nil
}

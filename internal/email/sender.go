// Package email provides outbound email delivery for client-facing messages
// and the internal email notification channel.
package email

import (
	"context"

	"doorcraft_backend/platform/config"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	// SendFollowUpEmail sends a sequenced nurture message to a client.
	SendFollowUpEmail(ctx context.Context, toEmail, consumerName, doorType, actionURL string, sequence int) error
	// SendPaymentReceiptEmail sends a receipt after a payment settles.
	SendPaymentReceiptEmail(ctx context.Context, toEmail, consumerName, quoteNumber, paymentType string, amountCents int64) error
	// SendInternalEmail delivers an internal notification to the operations mailbox.
	SendInternalEmail(ctx context.Context, toEmail, heading, message string, details []string, actionURL string) error
}

// NewSender returns the configured Sender. When email is disabled the
// returned sender silently drops all messages.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return noopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

type noopSender struct{}

func (noopSender) SendFollowUpEmail(context.Context, string, string, string, string, int) error {
	return nil
}

func (noopSender) SendPaymentReceiptEmail(context.Context, string, string, string, string, int64) error {
	return nil
}

func (noopSender) SendInternalEmail(context.Context, string, string, string, []string, string) error {
	return nil
}

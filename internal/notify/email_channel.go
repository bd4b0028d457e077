package notify

import (
	"context"

	"doorcraft_backend/internal/email"
	"doorcraft_backend/platform/config"
)

// EmailChannel delivers notifications to the operations mailbox.
type EmailChannel struct {
	sender  email.Sender
	toEmail string
}

// NewEmailChannel returns nil when no notification address is configured.
func NewEmailChannel(cfg config.NotifyConfig, sender email.Sender) *EmailChannel {
	if cfg.GetNotifyEmailAddress() == "" {
		return nil
	}
	return &EmailChannel{sender: sender, toEmail: cfg.GetNotifyEmailAddress()}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, n Notification) error {
	return c.sender.SendInternalEmail(ctx, c.toEmail, n.Heading, n.Message, n.Details, n.ActionURL)
}

package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendFollowUpEmail(ctx context.Context, toEmail, consumerName, doorType, actionURL string, sequence int) error {
	content, err := renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{
			Title:    "Nog vragen over uw offerte?",
			Heading:  "Nog vragen over uw offerte?",
			CTALabel: followUpCTALabel(sequence),
			CTAURL:   actionURL,
		},
		ConsumerName: consumerName,
		DoorType:     doorType,
		Sequence:     sequence,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, followUpSubject(sequence), content)
}

func (s *SMTPSender) SendPaymentReceiptEmail(ctx context.Context, toEmail, consumerName, quoteNumber, paymentType string, amountCents int64) error {
	subject := fmt.Sprintf(subjectPaymentReceiptFmt, quoteNumber)
	content, err := renderEmailTemplate("payment_receipt.html", paymentReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:   "Betaling ontvangen",
			Heading: "Betaling ontvangen",
		},
		ConsumerName:    consumerName,
		QuoteNumber:     quoteNumber,
		PaymentLabel:    paymentTypeLabel(paymentType),
		AmountFormatted: formatCurrencyEUR(amountCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendInternalEmail(ctx context.Context, toEmail, heading, message string, details []string, actionURL string) error {
	content, err := renderEmailTemplate("internal.html", internalEmailData{
		baseEmailData: baseEmailData{
			Title:    heading,
			Heading:  heading,
			CTALabel: internalCTALabel(actionURL),
			CTAURL:   actionURL,
		},
		Message: message,
		Details: details,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, heading, content)
}

func internalCTALabel(actionURL string) string {
	if actionURL == "" {
		return ""
	}
	return "Bekijk in portaal"
}

// formatCurrencyEUR formats a cent amount as a euro string, e.g. "€ 1.234,50".
func formatCurrencyEUR(cents int64) string {
	euros := cents / 100
	rest := cents % 100
	if rest < 0 {
		rest = -rest
	}
	return fmt.Sprintf("€ %d,%02d", euros, rest)
}

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type followUpEmailData struct {
	baseEmailData
	ConsumerName string
	DoorType     string
	Sequence     int
}

type paymentReceiptEmailData struct {
	baseEmailData
	ConsumerName    string
	QuoteNumber     string
	PaymentLabel    string
	AmountFormatted string
}

type internalEmailData struct {
	baseEmailData
	Message string
	Details []string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

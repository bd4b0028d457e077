package email

import (
	"strings"
	"testing"
)

func TestRenderFollowUpTemplate(t *testing.T) {
	html, err := renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{
			Title:    followUpSubject(1),
			Heading:  followUpSubject(1),
			CTALabel: followUpCTALabel(1),
			CTAURL:   "https://portal.example.com",
		},
		ConsumerName: "Jan de Vries",
		DoorType:     "voordeur",
		Sequence:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Jan de Vries") {
		t.Error("rendered template must contain the consumer name")
	}
	if !strings.Contains(html, "https://portal.example.com") {
		t.Error("rendered template must contain the action link")
	}
}

func TestRenderPaymentReceiptTemplate(t *testing.T) {
	html, err := renderEmailTemplate("payment_receipt.html", paymentReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:   "Betaling ontvangen voor offerte Q-2026-0001",
			Heading: "Betaling ontvangen",
		},
		ConsumerName:    "Jan de Vries",
		QuoteNumber:     "Q-2026-0001",
		PaymentLabel:    paymentTypeLabel("advance_50"),
		AmountFormatted: formatCurrencyEUR(122500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Q-2026-0001") {
		t.Error("rendered template must contain the quote number")
	}
	if !strings.Contains(html, "Aanbetaling (50%)") {
		t.Error("rendered template must contain the payment label")
	}
}

func TestFollowUpSubjectPerSequence(t *testing.T) {
	if followUpSubject(1) == followUpSubject(3) {
		t.Error("first and final follow-up must not share a subject")
	}
	if followUpCTALabel(3) == followUpCTALabel(1) {
		t.Error("final follow-up must carry a contact CTA")
	}
}

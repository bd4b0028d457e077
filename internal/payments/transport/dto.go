package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// SettleRequest confirms a pending payment.
type SettleRequest struct {
	Method    *string    `json:"method" validate:"omitempty,max=50"`
	Reference *string    `json:"reference" validate:"omitempty,max=200"`
	PaidAt    *time.Time `json:"paidAt"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// PaymentResponse is the API shape of a payment.
type PaymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	QuoteID     uuid.UUID  `json:"quoteId"`
	PaymentType string     `json:"paymentType"`
	Status      string     `json:"status"`
	Method      *string    `json:"method,omitempty"`
	Reference   *string    `json:"reference,omitempty"`
	AmountCents int64      `json:"amountCents"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

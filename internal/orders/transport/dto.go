package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateTrackingRequest starts fulfillment for an approved quote.
type CreateTrackingRequest struct {
	QuoteID uuid.UUID `json:"quoteId" validate:"required"`
}

// TransitionRequest moves a tracking record to the next fulfillment stage.
// Optional shipping fields merge in the same write.
type TransitionRequest struct {
	ToStage               string     `json:"toStage" validate:"required,oneof=deposit_1_pending manufacturing deposit_2_pending shipping delivered"`
	TrackingNumber        *string    `json:"trackingNumber" validate:"omitempty,max=100"`
	Carrier               *string    `json:"carrier" validate:"omitempty,max=100"`
	EstimatedShipDate     *time.Time `json:"estimatedShipDate"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
	Notes                 *string    `json:"notes" validate:"omitempty,max=2000"`
}

// MarkDepositRequest records an out-of-band deposit payment.
type MarkDepositRequest struct {
	Deposit int `json:"deposit" validate:"required,oneof=1 2"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// TrackingResponse is the API shape of an order tracking record.
type TrackingResponse struct {
	ID                       uuid.UUID  `json:"id"`
	QuoteID                  uuid.UUID  `json:"quoteId"`
	Status                   string     `json:"status"`
	Stage                    string     `json:"stage"`
	Deposit1Paid             bool       `json:"deposit1Paid"`
	Deposit1AmountCents      int64      `json:"deposit1AmountCents"`
	Deposit1PaidAt           *time.Time `json:"deposit1PaidAt,omitempty"`
	Deposit2Paid             bool       `json:"deposit2Paid"`
	Deposit2AmountCents      int64      `json:"deposit2AmountCents"`
	Deposit2PaidAt           *time.Time `json:"deposit2PaidAt,omitempty"`
	TrackingNumber           *string    `json:"trackingNumber,omitempty"`
	Carrier                  *string    `json:"carrier,omitempty"`
	EstimatedShipDate        *time.Time `json:"estimatedShipDate,omitempty"`
	EstimatedDeliveryDate    *time.Time `json:"estimatedDeliveryDate,omitempty"`
	Notes                    *string    `json:"notes,omitempty"`
	ManufacturingStartedAt   *time.Time `json:"manufacturingStartedAt,omitempty"`
	ManufacturingCompletedAt *time.Time `json:"manufacturingCompletedAt,omitempty"`
	ShippedAt                *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt              *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// PromoteLeadStatusRequest raises a quote's pipeline classification.
// Lowering happens only through the aging and follow-up jobs.
type PromoteLeadStatusRequest struct {
	LeadStatus string `json:"leadStatus" validate:"required,oneof=warm hot"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuoteResponse is the API shape of a quote.
type QuoteResponse struct {
	ID              uuid.UUID `json:"id"`
	LeadID          uuid.UUID `json:"leadId"`
	QuoteNumber     string    `json:"quoteNumber"`
	LeadStatus      string    `json:"leadStatus"`
	PortalStage     *string   `json:"portalStage,omitempty"`
	GrandTotalCents int64     `json:"grandTotalCents"`
	FullIntent      bool      `json:"fullIntent"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

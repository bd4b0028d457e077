package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// RaiseTemperatureRequest raises a lead's temperature. The aging job only
// lowers it; cold is therefore not a valid target.
type RaiseTemperatureRequest struct {
	Temperature string `json:"temperature" validate:"required,oneof=warm hot"`
}

// SetWorkflowStatusRequest sets the admin workflow classification.
type SetWorkflowStatusRequest struct {
	WorkflowStatus string `json:"workflowStatus" validate:"required,oneof=contacted qualified lost"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LeadResponse is the API shape of a lead.
type LeadResponse struct {
	ID             uuid.UUID `json:"id"`
	ConsumerName   string    `json:"consumerName"`
	ConsumerEmail  string    `json:"consumerEmail"`
	ConsumerPhone  *string   `json:"consumerPhone,omitempty"`
	DoorType       string    `json:"doorType"`
	Temperature    string    `json:"temperature"`
	WorkflowStatus *string   `json:"workflowStatus,omitempty"`
	HasQuote       bool      `json:"hasQuote"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

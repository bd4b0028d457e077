package events

import (
	"time"

	"github.com/google/uuid"
)

// OrderTrackingCreated is published when an order tracking row is created
// for an approved quote.
type OrderTrackingCreated struct {
	BaseEvent
	TrackingID  uuid.UUID
	QuoteID     uuid.UUID
	QuoteNumber string
	TotalCents  int64
}

func (OrderTrackingCreated) EventName() string { return "orders.tracking_created" }

// OrderStageChanged is published after a successful fulfillment stage
// transition, regardless of whether the trigger was administrative or a
// payment settlement.
type OrderStageChanged struct {
	BaseEvent
	TrackingID  uuid.UUID
	QuoteID     uuid.UUID
	QuoteNumber string
	FromStage   string
	ToStage     string
	Source      string
}

func (OrderStageChanged) EventName() string { return "orders.stage_changed" }

// PaymentSettled is published after a payment is confirmed and its cascade
// has been committed.
type PaymentSettled struct {
	BaseEvent
	PaymentID   uuid.UUID
	QuoteID     uuid.UUID
	QuoteNumber string
	PaymentType string
	AmountCents int64
	PaidAt      time.Time
}

func (PaymentSettled) EventName() string { return "payments.settled" }

// FollowUpSent is published after a nurture message was delivered and its
// schedule marked sent.
type FollowUpSent struct {
	BaseEvent
	ScheduleID     uuid.UUID
	QuoteID        uuid.UUID
	SequenceNumber int
	Recipient      string
}

func (FollowUpSent) EventName() string { return "followup.sent" }

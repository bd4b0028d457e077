// Package service holds the business logic for order fulfillment. All stage
// mutations, administrative or payment-triggered, flow through ApplyTransition
// so the valid-edges invariant is enforced in exactly one place.
package service

import (
	"context"
	"fmt"
	"time"

	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/orders/domain"
	"doorcraft_backend/internal/orders/repository"
	"doorcraft_backend/internal/orders/transport"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

// Transition sources, recorded on stage-change events.
const (
	SourceAdmin   = "admin"
	SourcePayment = "payment"
)

const drawingStatusSigned = "signed"

// TrackingStore is the persistence surface the service needs.
type TrackingStore interface {
	Create(ctx context.Context, t *repository.OrderTracking) error
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*repository.OrderTracking, error)
	LatestApprovalDrawingStatus(ctx context.Context, quoteID uuid.UUID) (string, error)
	UpdateStage(ctx context.Context, p repository.UpdateStageParams) (*repository.OrderTracking, error)
	MarkDeposit(ctx context.Context, quoteID uuid.UUID, deposit int, paidAt time.Time) (bool, error)
	SetStatus(ctx context.Context, quoteID uuid.UUID, status string) error
}

// QuoteOrderView carries the quote fields the order service reads.
type QuoteOrderView struct {
	QuoteNumber string
	TotalCents  int64
}

// QuoteStore is the narrow quote surface: a read for order creation and the
// portal_stage mirror write performed on every successful transition.
type QuoteStore interface {
	GetOrderView(ctx context.Context, quoteID uuid.UUID) (QuoteOrderView, error)
	SetPortalStage(ctx context.Context, quoteID uuid.UUID, stage string) error
}

// ApplyInput is a requested stage transition, regardless of trigger source.
type ApplyInput struct {
	QuoteID   uuid.UUID
	ToStage   string
	Source    string
	NewStatus *string
	Fields    transport.TransitionRequest
}

type Service struct {
	store  TrackingStore
	quotes QuoteStore
	bus    events.Bus
	log    *logger.Logger
}

func New(store TrackingStore, quotes QuoteStore, log *logger.Logger) *Service {
	return &Service{store: store, quotes: quotes, log: log}
}

// SetEventBus injects the event bus (set after construction to break circular deps).
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// CreateTracking starts fulfillment for a quote. Both preconditions are
// fatal: the latest approval drawing must be signed and no tracking row may
// exist yet. Deposit amounts are pre-computed as half of the quote total.
func (s *Service) CreateTracking(ctx context.Context, quoteID uuid.UUID) (*repository.OrderTracking, error) {
	view, err := s.quotes.GetOrderView(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	drawingStatus, err := s.store.LatestApprovalDrawingStatus(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("check approval drawing: %w", err)
	}
	if drawingStatus != drawingStatusSigned {
		return nil, apperr.Validation("latest approval drawing must be signed before fulfillment can start")
	}

	existing, err := s.store.GetByQuoteID(ctx, quoteID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("order tracking already exists for this quote")
	}

	deposit1 := view.TotalCents / 2
	now := time.Now().UTC()
	tracking := &repository.OrderTracking{
		ID:                  uuid.New(),
		QuoteID:             quoteID,
		Status:              domain.StatusPending,
		Stage:               domain.StageDeposit1Pending,
		Deposit1AmountCents: deposit1,
		Deposit2AmountCents: view.TotalCents - deposit1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.Create(ctx, tracking); err != nil {
		return nil, err
	}

	s.mirrorPortalStage(ctx, quoteID, tracking.Stage)

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderTrackingCreated{
			BaseEvent:   events.NewBaseEvent(),
			TrackingID:  tracking.ID,
			QuoteID:     quoteID,
			QuoteNumber: view.QuoteNumber,
			TotalCents:  view.TotalCents,
		})
	}

	return tracking, nil
}

// ApplyTransition validates and commits one stage move. The write compares
// the stage observed here, so of two concurrent requests exactly one wins and
// the other gets a conflict.
func (s *Service) ApplyTransition(ctx context.Context, input ApplyInput) (*repository.OrderTracking, error) {
	if !domain.IsKnownStage(input.ToStage) {
		return nil, apperr.Validation(fmt.Sprintf("unknown stage %q", input.ToStage))
	}

	tracking, err := s.store.GetByQuoteID(ctx, input.QuoteID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(tracking.Stage, input.ToStage) {
		return nil, apperr.Validation(fmt.Sprintf(
			"invalid stage transition from %q to %q (allowed: %s)",
			tracking.Stage, input.ToStage, domain.AllowedNextStagesText(tracking.Stage),
		))
	}

	updated, err := s.store.UpdateStage(ctx, repository.UpdateStageParams{
		QuoteID:               input.QuoteID,
		ExpectedStage:         tracking.Stage,
		NewStage:              input.ToStage,
		NewStatus:             input.NewStatus,
		TrackingNumber:        input.Fields.TrackingNumber,
		Carrier:               input.Fields.Carrier,
		EstimatedShipDate:     input.Fields.EstimatedShipDate,
		EstimatedDeliveryDate: input.Fields.EstimatedDeliveryDate,
		Notes:                 input.Fields.Notes,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.Conflict("stage changed concurrently, please retry")
	}

	s.mirrorPortalStage(ctx, input.QuoteID, updated.Stage)

	if s.bus != nil {
		view, viewErr := s.quotes.GetOrderView(ctx, input.QuoteID)
		if viewErr != nil {
			s.log.Warn("failed to load quote for stage change event", "quoteId", input.QuoteID, "error", viewErr)
		}
		s.bus.Publish(ctx, events.OrderStageChanged{
			BaseEvent:   events.NewBaseEvent(),
			TrackingID:  updated.ID,
			QuoteID:     input.QuoteID,
			QuoteNumber: view.QuoteNumber,
			FromStage:   tracking.Stage,
			ToStage:     updated.Stage,
			Source:      input.Source,
		})
	}

	return updated, nil
}

// MarkDepositPaid records a settled deposit and advances the stage through
// the normal transition path. Repeats are no-ops.
func (s *Service) MarkDepositPaid(ctx context.Context, quoteID uuid.UUID, deposit int, source string) (*repository.OrderTracking, error) {
	var pendingStage, targetStage, newStatus string
	switch deposit {
	case 1:
		pendingStage, targetStage, newStatus = domain.StageDeposit1Pending, domain.StageManufacturing, domain.StatusInProgress
	case 2:
		pendingStage, targetStage, newStatus = domain.StageDeposit2Pending, domain.StageShipping, domain.StatusCompleted
	default:
		return nil, apperr.BadRequest("deposit must be 1 or 2")
	}

	tracking, err := s.store.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	alreadyPaid := tracking.Deposit1Paid
	if deposit == 2 {
		alreadyPaid = tracking.Deposit2Paid
	}
	if alreadyPaid {
		return tracking, nil
	}

	switch tracking.Stage {
	case pendingStage:
		if _, err := s.store.MarkDeposit(ctx, quoteID, deposit, time.Now().UTC()); err != nil {
			return nil, err
		}
		updated, err := s.ApplyTransition(ctx, ApplyInput{
			QuoteID:   quoteID,
			ToStage:   targetStage,
			Source:    source,
			NewStatus: &newStatus,
		})
		if apperr.Is(err, apperr.KindConflict) {
			// A concurrent admin transition won the stage write. The deposit
			// flag is already set; reconcile the status and report the
			// current record.
			current, readErr := s.store.GetByQuoteID(ctx, quoteID)
			if readErr != nil {
				return nil, readErr
			}
			if current.Stage == targetStage {
				if statusErr := s.store.SetStatus(ctx, quoteID, newStatus); statusErr != nil {
					return nil, statusErr
				}
				current.Status = newStatus
				return current, nil
			}
			return nil, err
		}
		return updated, err
	case targetStage:
		// Stage was advanced administratively before the payment settled;
		// only the deposit flag and status are missing.
		if _, err := s.store.MarkDeposit(ctx, quoteID, deposit, time.Now().UTC()); err != nil {
			return nil, err
		}
		if err := s.store.SetStatus(ctx, quoteID, newStatus); err != nil {
			return nil, err
		}
		return s.store.GetByQuoteID(ctx, quoteID)
	default:
		return nil, apperr.Validation(fmt.Sprintf(
			"deposit %d can only be marked paid while stage is %q (current: %q)",
			deposit, pendingStage, tracking.Stage,
		))
	}
}

// GetByQuoteID returns the tracking record for a quote.
func (s *Service) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*repository.OrderTracking, error) {
	return s.store.GetByQuoteID(ctx, quoteID)
}

func (s *Service) mirrorPortalStage(ctx context.Context, quoteID uuid.UUID, stage string) {
	if err := s.quotes.SetPortalStage(ctx, quoteID, stage); err != nil {
		s.log.Error("failed to mirror portal stage", "quoteId", quoteID, "stage", stage, "error", err)
	}
}

// ToResponse maps a persistence record to its API shape.
func ToResponse(t *repository.OrderTracking) transport.TrackingResponse {
	return transport.TrackingResponse{
		ID:                       t.ID,
		QuoteID:                  t.QuoteID,
		Status:                   t.Status,
		Stage:                    t.Stage,
		Deposit1Paid:             t.Deposit1Paid,
		Deposit1AmountCents:      t.Deposit1AmountCents,
		Deposit1PaidAt:           t.Deposit1PaidAt,
		Deposit2Paid:             t.Deposit2Paid,
		Deposit2AmountCents:      t.Deposit2AmountCents,
		Deposit2PaidAt:           t.Deposit2PaidAt,
		TrackingNumber:           t.TrackingNumber,
		Carrier:                  t.Carrier,
		EstimatedShipDate:        t.EstimatedShipDate,
		EstimatedDeliveryDate:    t.EstimatedDeliveryDate,
		Notes:                    t.Notes,
		ManufacturingStartedAt:   t.ManufacturingStartedAt,
		ManufacturingCompletedAt: t.ManufacturingCompletedAt,
		ShippedAt:                t.ShippedAt,
		DeliveredAt:              t.DeliveredAt,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}

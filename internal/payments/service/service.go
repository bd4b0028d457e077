// Package service holds the business logic for payment settlement. A settled
// payment is ground truth: its cascade into order state must commit, while
// receipts and notifications remain best-effort side effects.
package service

import (
	"context"
	"fmt"
	"time"

	"doorcraft_backend/internal/email"
	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/payments/repository"
	"doorcraft_backend/internal/payments/transport"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

// PaymentStore is the persistence surface the service needs.
type PaymentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Payment, error)
	ConfirmIfPending(ctx context.Context, id uuid.UUID, params repository.ConfirmParams) (*repository.Payment, bool, error)
}

// OrderCascader applies the deposit cascade into order tracking state.
type OrderCascader interface {
	MarkDepositPaid(ctx context.Context, quoteID uuid.UUID, deposit int) error
}

// ReceiptView carries the quote fields needed for the receipt message.
type ReceiptView struct {
	QuoteNumber   string
	ConsumerName  string
	ConsumerEmail string
}

// ReceiptReader resolves the receipt render fields for a quote.
type ReceiptReader interface {
	GetReceiptView(ctx context.Context, quoteID uuid.UUID) (ReceiptView, error)
}

type Service struct {
	store    PaymentStore
	orders   OrderCascader
	receipts ReceiptReader
	sender   email.Sender
	bus      events.Bus
	log      *logger.Logger
}

func New(store PaymentStore, orders OrderCascader, receipts ReceiptReader, sender email.Sender, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		orders:   orders,
		receipts: receipts,
		sender:   sender,
		log:      log,
	}
}

// SetEventBus injects the event bus (set after construction to break circular deps).
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// GetByID returns a payment by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Payment, error) {
	return s.store.GetByID(ctx, id)
}

// Settle confirms a pending payment and cascades into order state. A
// payment that already left the pending state is untouched and reported as-is,
// making repeats harmless.
func (s *Service) Settle(ctx context.Context, id uuid.UUID, req transport.SettleRequest) (*repository.Payment, error) {
	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	payment, confirmed, err := s.store.ConfirmIfPending(ctx, id, repository.ConfirmParams{
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    paidAt,
	})
	if err != nil {
		return nil, err
	}
	if !confirmed {
		s.log.Info("payment already settled or on hold, skipping cascade",
			"paymentId", id, "status", payment.Status)
		return payment, nil
	}

	deposit, ok := depositForType(payment.PaymentType)
	if ok {
		if err := s.orders.MarkDepositPaid(ctx, payment.QuoteID, deposit); err != nil {
			return nil, fmt.Errorf("apply settlement cascade: %w", err)
		}
	} else {
		s.log.Warn("payment type has no deposit cascade", "paymentId", id, "type", payment.PaymentType)
	}

	s.afterSettlement(ctx, payment)
	return payment, nil
}

// afterSettlement runs the best-effort side effects. Their failure never
// rolls back the committed financial state change.
func (s *Service) afterSettlement(ctx context.Context, payment *repository.Payment) {
	view, err := s.receipts.GetReceiptView(ctx, payment.QuoteID)
	if err != nil {
		s.log.Warn("failed to load receipt view", "paymentId", payment.ID, "error", err)
	} else if view.ConsumerEmail != "" {
		if err := s.sender.SendPaymentReceiptEmail(ctx,
			view.ConsumerEmail, view.ConsumerName, view.QuoteNumber,
			payment.PaymentType, payment.AmountCents,
		); err != nil {
			s.log.Warn("failed to send payment receipt", "paymentId", payment.ID, "error", err)
		}
	}

	if s.bus != nil {
		paidAt := time.Now().UTC()
		if payment.PaidAt != nil {
			paidAt = *payment.PaidAt
		}
		s.bus.Publish(ctx, events.PaymentSettled{
			BaseEvent:   events.NewBaseEvent(),
			PaymentID:   payment.ID,
			QuoteID:     payment.QuoteID,
			QuoteNumber: view.QuoteNumber,
			PaymentType: payment.PaymentType,
			AmountCents: payment.AmountCents,
			PaidAt:      paidAt,
		})
	}
}

func depositForType(paymentType string) (int, bool) {
	switch paymentType {
	case repository.TypeAdvance50:
		return 1, true
	case repository.TypeBalance50:
		return 2, true
	default:
		return 0, false
	}
}

// ToResponse maps a persistence record to its API shape.
func ToResponse(p *repository.Payment) transport.PaymentResponse {
	return transport.PaymentResponse{
		ID:          p.ID,
		QuoteID:     p.QuoteID,
		PaymentType: p.PaymentType,
		Status:      p.Status,
		Method:      p.Method,
		Reference:   p.Reference,
		AmountCents: p.AmountCents,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

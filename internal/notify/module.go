package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/notify/outbox"
	"doorcraft_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	outboxKindInternal = "internal"

	maxOutboxAttempts = 5
	retryBaseDelay    = time.Minute
	retryMaxDelay     = 30 * time.Minute
)

// Module subscribes to domain events and records internal notifications in
// the outbox. Delivery happens asynchronously via Deliver.
type Module struct {
	outbox     *outbox.Repository
	dispatcher *Dispatcher
	log        *logger.Logger
}

func New(pool *pgxpool.Pool, dispatcher *Dispatcher, log *logger.Logger) *Module {
	return &Module{
		outbox:     outbox.New(pool),
		dispatcher: dispatcher,
		log:        log,
	}
}

func (m *Module) Name() string { return "notify" }

// Outbox exposes the outbox repository for the scheduler dispatcher.
func (m *Module) Outbox() *outbox.Repository { return m.outbox }

// RegisterHandlers subscribes to all events that produce internal
// notifications.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.OrderTrackingCreated{}.EventName(), m)
	bus.Subscribe(events.OrderStageChanged{}.EventName(), m)
	bus.Subscribe(events.PaymentSettled{}.EventName(), m)
	bus.Subscribe(events.FollowUpSent{}.EventName(), m)

	m.log.Info("notify module registered event handlers")
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrderTrackingCreated:
		return m.enqueue(ctx, Notification{
			Heading: "Nieuwe bestelling aangemaakt",
			Message: fmt.Sprintf("Voor offerte %s is een bestelling aangemaakt.", e.QuoteNumber),
			Details: []string{
				"Offerte: " + e.QuoteNumber,
				"Bedrag: " + formatEuro(e.TotalCents),
			},
		})
	case events.OrderStageChanged:
		return m.enqueue(ctx, Notification{
			Heading: "Bestelling naar volgende fase",
			Message: fmt.Sprintf("Bestelling voor offerte %s ging van %s naar %s.", e.QuoteNumber, stageLabel(e.FromStage), stageLabel(e.ToStage)),
			Details: []string{
				"Offerte: " + e.QuoteNumber,
				"Trigger: " + e.Source,
			},
		})
	case events.PaymentSettled:
		return m.enqueue(ctx, Notification{
			Heading: "Betaling ontvangen",
			Message: fmt.Sprintf("Betaling van %s voor offerte %s is verwerkt.", formatEuro(e.AmountCents), e.QuoteNumber),
			Details: []string{
				"Offerte: " + e.QuoteNumber,
				"Type: " + e.PaymentType,
			},
		})
	case events.FollowUpSent:
		return m.enqueue(ctx, Notification{
			Heading: "Follow-up verstuurd",
			Message: fmt.Sprintf("Follow-up %d is verstuurd naar %s.", e.SequenceNumber, e.Recipient),
		})
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) enqueue(ctx context.Context, n Notification) error {
	if m.dispatcher == nil || !m.dispatcher.HasChannels() {
		return nil
	}

	id, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:    outboxKindInternal,
		Payload: n,
	})
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}

	m.log.Info("notification enqueued", "outboxId", id.String(), "heading", n.Heading)
	return nil
}

// Deliver processes a single claimed outbox record. Transient channel
// failures reschedule the record with backoff until the attempt limit.
func (m *Module) Deliver(ctx context.Context, rec outbox.Record) error {
	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	var n Notification
	if err := json.Unmarshal(rec.Payload, &n); err != nil {
		return m.outbox.MarkFailed(ctx, rec.ID, "invalid payload: "+err.Error())
	}

	if err := m.dispatcher.Dispatch(ctx, n); err != nil {
		attempts := rec.Attempts + 1
		if attempts >= maxOutboxAttempts {
			m.log.Error("notification delivery failed permanently", "outboxId", rec.ID.String(), "attempts", attempts, "error", err)
			return m.outbox.MarkFailed(ctx, rec.ID, err.Error())
		}

		msg := err.Error()
		runAt := time.Now().UTC().Add(retryDelay(attempts))
		m.log.Warn("notification delivery failed, retrying", "outboxId", rec.ID.String(), "attempts", attempts, "error", err)
		return m.outbox.MarkPending(ctx, rec.ID, runAt, &msg)
	}

	return m.outbox.MarkSucceeded(ctx, rec.ID)
}

func retryDelay(attempts int) time.Duration {
	delay := retryBaseDelay << (attempts - 1)
	if delay > retryMaxDelay {
		return retryMaxDelay
	}
	return delay
}

func stageLabel(stage string) string {
	switch stage {
	case "deposit_1_pending":
		return "wacht op aanbetaling"
	case "manufacturing":
		return "in productie"
	case "deposit_2_pending":
		return "wacht op restbetaling"
	case "shipping":
		return "in verzending"
	case "delivered":
		return "geleverd"
	default:
		return stage
	}
}

func formatEuro(cents int64) string {
	euros := cents / 100
	rest := cents % 100
	if rest < 0 {
		rest = -rest
	}
	return fmt.Sprintf("€ %d,%02d", euros, rest)
}

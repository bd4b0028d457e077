// Package followup runs the dispatch pass over due follow-up schedules.
// Each schedule is handled in isolation: a failing item is logged and
// counted, never aborting the rest of the batch.
package followup

import (
	"context"
	"time"

	"doorcraft_backend/internal/email"
	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/followup/repository"
	quotesdomain "doorcraft_backend/internal/quotes/domain"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

const batchSize = 100

// Schedules after this sequence exhaust the follow-up chain.
const finalSequence = 3

// ScheduleStore is the persistence surface the job needs.
type ScheduleStore interface {
	DuePending(ctx context.Context, now time.Time, limit int) ([]*repository.Schedule, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	PendingCountForQuote(ctx context.Context, quoteID uuid.UUID) (int, error)
	AppendLog(ctx context.Context, entry repository.LogEntry) error
}

// QuoteView carries the quote fields needed to render a follow-up.
type QuoteView struct {
	QuoteNumber   string
	LeadStatus    string
	FullIntent    bool
	ConsumerName  string
	ConsumerEmail string
	DoorType      string
}

// QuoteReader resolves the follow-up render fields for a quote.
type QuoteReader interface {
	GetFollowUpView(ctx context.Context, quoteID uuid.UUID) (QuoteView, error)
}

// LeadCooler demotes a quote's lead status once the chain is exhausted.
type LeadCooler interface {
	SystemDemoteToCold(ctx context.Context, quoteID uuid.UUID) (bool, error)
}

// Job dispatches due follow-up messages.
type Job struct {
	store  ScheduleStore
	quotes QuoteReader
	cooler LeadCooler
	sender email.Sender
	cfg    config.MessagingConfig
	bus    events.Bus
	log    *logger.Logger
}

func NewJob(
	store ScheduleStore,
	quotes QuoteReader,
	cooler LeadCooler,
	sender email.Sender,
	cfg config.MessagingConfig,
	log *logger.Logger,
) *Job {
	return &Job{
		store:  store,
		quotes: quotes,
		cooler: cooler,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// SetEventBus injects the event bus (set after construction to break circular deps).
func (j *Job) SetEventBus(bus events.Bus) {
	j.bus = bus
}

// Run processes all due schedules and reports how many messages went out and
// how many items failed.
func (j *Job) Run(ctx context.Context, now time.Time) (sent int, errs int) {
	schedules, err := j.store.DuePending(ctx, now, batchSize)
	if err != nil {
		j.log.Error("failed to load due follow-up schedules", "error", err)
		return 0, 1
	}

	for _, schedule := range schedules {
		delivered, err := j.processOne(ctx, now, schedule)
		if err != nil {
			errs++
			j.log.Error("follow-up dispatch failed",
				"scheduleId", schedule.ID, "quoteId", schedule.QuoteID, "error", err)
			continue
		}
		if delivered {
			sent++
		}
	}

	j.log.Info("follow-up dispatch pass finished",
		"due", len(schedules), "sent", sent, "errors", errs)
	return sent, errs
}

func (j *Job) processOne(ctx context.Context, now time.Time, schedule *repository.Schedule) (bool, error) {
	view, err := j.quotes.GetFollowUpView(ctx, schedule.QuoteID)
	if apperr.Is(err, apperr.KindNotFound) {
		j.log.Warn("cancelling orphaned follow-up schedule",
			"scheduleId", schedule.ID, "quoteId", schedule.QuoteID)
		return false, j.store.Cancel(ctx, schedule.ID)
	}
	if err != nil {
		return false, err
	}

	if quotesdomain.IsTerminalDisposition(view.LeadStatus) {
		j.log.Info("cancelling follow-up for disposed quote",
			"scheduleId", schedule.ID, "quoteId", schedule.QuoteID, "leadStatus", view.LeadStatus)
		return false, j.store.Cancel(ctx, schedule.ID)
	}

	if view.ConsumerEmail == "" {
		j.log.Warn("cancelling follow-up without recipient address",
			"scheduleId", schedule.ID, "quoteId", schedule.QuoteID)
		return false, j.store.Cancel(ctx, schedule.ID)
	}

	actionURL := j.cfg.GetContactPageURL()
	if view.FullIntent {
		actionURL = j.cfg.GetPortalBaseURL()
	}

	if err := j.sender.SendFollowUpEmail(ctx,
		view.ConsumerEmail, view.ConsumerName, view.DoorType, actionURL,
		schedule.SequenceNumber,
	); err != nil {
		return false, err
	}

	if err := j.store.MarkSent(ctx, schedule.ID, now); err != nil {
		return false, err
	}

	if err := j.store.AppendLog(ctx, repository.LogEntry{
		ScheduleID:     schedule.ID,
		QuoteID:        schedule.QuoteID,
		SequenceNumber: schedule.SequenceNumber,
		Recipient:      view.ConsumerEmail,
		SentAt:         now,
	}); err != nil {
		j.log.Warn("failed to append follow-up log", "scheduleId", schedule.ID, "error", err)
	}

	if j.bus != nil {
		j.bus.Publish(ctx, events.FollowUpSent{
			BaseEvent:      events.NewBaseEvent(),
			ScheduleID:     schedule.ID,
			QuoteID:        schedule.QuoteID,
			SequenceNumber: schedule.SequenceNumber,
			Recipient:      view.ConsumerEmail,
		})
	}

	j.coolDownIfExhausted(ctx, schedule)
	return true, nil
}

// coolDownIfExhausted demotes the lead once the final follow-up went out and
// nothing else is planned. Best-effort: the message is already sent.
func (j *Job) coolDownIfExhausted(ctx context.Context, schedule *repository.Schedule) {
	if schedule.SequenceNumber < finalSequence {
		return
	}

	pending, err := j.store.PendingCountForQuote(ctx, schedule.QuoteID)
	if err != nil {
		j.log.Warn("failed to count pending follow-ups", "quoteId", schedule.QuoteID, "error", err)
		return
	}
	if pending > 0 {
		return
	}

	demoted, err := j.cooler.SystemDemoteToCold(ctx, schedule.QuoteID)
	if err != nil {
		j.log.Warn("failed to demote quote after final follow-up",
			"quoteId", schedule.QuoteID, "error", err)
		return
	}
	if demoted {
		j.log.Info("quote demoted to cold after final follow-up", "quoteId", schedule.QuoteID)
	}
}

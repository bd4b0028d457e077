package followup

import (
	"context"
	"errors"
	"testing"
	"time"

	"doorcraft_backend/internal/followup/repository"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeScheduleStore struct {
	due     []*repository.Schedule
	pending map[uuid.UUID]int

	cancelled []uuid.UUID
	sent      []uuid.UUID
	logged    []repository.LogEntry
}

func (f *fakeScheduleStore) DuePending(_ context.Context, _ time.Time, _ int) ([]*repository.Schedule, error) {
	return f.due, nil
}

func (f *fakeScheduleStore) Cancel(_ context.Context, id uuid.UUID) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeScheduleStore) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeScheduleStore) PendingCountForQuote(_ context.Context, quoteID uuid.UUID) (int, error) {
	return f.pending[quoteID], nil
}

func (f *fakeScheduleStore) AppendLog(_ context.Context, entry repository.LogEntry) error {
	f.logged = append(f.logged, entry)
	return nil
}

type fakeQuoteReader struct {
	views map[uuid.UUID]QuoteView
}

func (f *fakeQuoteReader) GetFollowUpView(_ context.Context, quoteID uuid.UUID) (QuoteView, error) {
	view, ok := f.views[quoteID]
	if !ok {
		return QuoteView{}, apperr.NotFound("quote not found")
	}
	return view, nil
}

type fakeCooler struct {
	demoted []uuid.UUID
}

func (f *fakeCooler) SystemDemoteToCold(_ context.Context, quoteID uuid.UUID) (bool, error) {
	f.demoted = append(f.demoted, quoteID)
	return true, nil
}

type fakeFollowUpSender struct {
	sends   []string
	urls    []string
	failFor string
}

func (f *fakeFollowUpSender) SendFollowUpEmail(_ context.Context, toEmail, _, _, actionURL string, _ int) error {
	if toEmail == f.failFor {
		return errors.New("smtp down")
	}
	f.sends = append(f.sends, toEmail)
	f.urls = append(f.urls, actionURL)
	return nil
}

func (f *fakeFollowUpSender) SendPaymentReceiptEmail(_ context.Context, _, _, _, _ string, _ int64) error {
	return nil
}

func (f *fakeFollowUpSender) SendInternalEmail(_ context.Context, _, _, _ string, _ []string, _ string) error {
	return nil
}

type fakeMessagingConfig struct{}

func (fakeMessagingConfig) GetPortalBaseURL() string  { return "https://portal.example.com" }
func (fakeMessagingConfig) GetContactPageURL() string { return "https://example.com/contact" }

func dueSchedule(quoteID uuid.UUID, sequence int) *repository.Schedule {
	return &repository.Schedule{
		ID:             uuid.New(),
		QuoteID:        quoteID,
		SequenceNumber: sequence,
		ScheduledFor:   time.Now().Add(-time.Hour),
		Status:         repository.StatusPending,
	}
}

func activeView(email string) QuoteView {
	return QuoteView{
		QuoteNumber:   "Q-2026-0001",
		LeadStatus:    "warm",
		FullIntent:    true,
		ConsumerName:  "Jan de Vries",
		ConsumerEmail: email,
		DoorType:      "voordeur",
	}
}

func newTestJob(store *fakeScheduleStore, quotes *fakeQuoteReader, cooler *fakeCooler, sender *fakeFollowUpSender) *Job {
	return NewJob(store, quotes, cooler, sender, fakeMessagingConfig{}, logger.New("development"))
}

func TestRunSendsDueFollowUps(t *testing.T) {
	quoteID := uuid.New()
	store := &fakeScheduleStore{due: []*repository.Schedule{dueSchedule(quoteID, 1)}}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: activeView("jan@example.com")}}
	sender := &fakeFollowUpSender{}
	job := newTestJob(store, quotes, &fakeCooler{}, sender)

	sent, errs := job.Run(context.Background(), time.Now())
	if sent != 1 || errs != 0 {
		t.Fatalf("sent=%d errs=%d, want 1/0", sent, errs)
	}
	if len(store.sent) != 1 {
		t.Error("schedule must be marked sent")
	}
	if len(store.logged) != 1 || store.logged[0].Recipient != "jan@example.com" {
		t.Errorf("log entries = %v", store.logged)
	}
	if len(sender.urls) != 1 || sender.urls[0] != "https://portal.example.com" {
		t.Errorf("full-intent quote must link to the portal, got %v", sender.urls)
	}
}

func TestRunLinksContactPageWithoutFullIntent(t *testing.T) {
	quoteID := uuid.New()
	view := activeView("jan@example.com")
	view.FullIntent = false
	store := &fakeScheduleStore{due: []*repository.Schedule{dueSchedule(quoteID, 1)}}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: view}}
	sender := &fakeFollowUpSender{}
	job := newTestJob(store, quotes, &fakeCooler{}, sender)

	job.Run(context.Background(), time.Now())
	if len(sender.urls) != 1 || sender.urls[0] != "https://example.com/contact" {
		t.Errorf("quote without full intent must link to the contact page, got %v", sender.urls)
	}
}

func TestRunCancelsOrphanedSchedule(t *testing.T) {
	schedule := dueSchedule(uuid.New(), 1)
	store := &fakeScheduleStore{due: []*repository.Schedule{schedule}}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{}}
	job := newTestJob(store, quotes, &fakeCooler{}, &fakeFollowUpSender{})

	sent, errs := job.Run(context.Background(), time.Now())
	if sent != 0 || errs != 0 {
		t.Fatalf("sent=%d errs=%d, want 0/0", sent, errs)
	}
	if len(store.cancelled) != 1 || store.cancelled[0] != schedule.ID {
		t.Errorf("cancelled = %v, want the orphaned schedule", store.cancelled)
	}
}

func TestRunCancelsDisposedQuote(t *testing.T) {
	quoteID := uuid.New()
	view := activeView("jan@example.com")
	view.LeadStatus = "converted"
	schedule := dueSchedule(quoteID, 2)
	store := &fakeScheduleStore{due: []*repository.Schedule{schedule}}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: view}}
	sender := &fakeFollowUpSender{}
	job := newTestJob(store, quotes, &fakeCooler{}, sender)

	job.Run(context.Background(), time.Now())
	if len(sender.sends) != 0 {
		t.Error("disposed quote must not receive follow-ups")
	}
	if len(store.cancelled) != 1 {
		t.Errorf("cancelled = %v, want the disposed schedule", store.cancelled)
	}
}

func TestRunIsolatesFailingItems(t *testing.T) {
	failing := uuid.New()
	healthy := uuid.New()
	store := &fakeScheduleStore{due: []*repository.Schedule{
		dueSchedule(failing, 1),
		dueSchedule(healthy, 1),
	}}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{
		failing: activeView("broken@example.com"),
		healthy: activeView("jan@example.com"),
	}}
	sender := &fakeFollowUpSender{failFor: "broken@example.com"}
	job := newTestJob(store, quotes, &fakeCooler{}, sender)

	sent, errs := job.Run(context.Background(), time.Now())
	if sent != 1 || errs != 1 {
		t.Fatalf("sent=%d errs=%d, want 1/1", sent, errs)
	}
	if len(sender.sends) != 1 || sender.sends[0] != "jan@example.com" {
		t.Errorf("sends = %v, want only the healthy recipient", sender.sends)
	}
}

func TestRunDemotesAfterFinalFollowUp(t *testing.T) {
	quoteID := uuid.New()
	store := &fakeScheduleStore{
		due:     []*repository.Schedule{dueSchedule(quoteID, 3)},
		pending: map[uuid.UUID]int{quoteID: 0},
	}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: activeView("jan@example.com")}}
	cooler := &fakeCooler{}
	job := newTestJob(store, quotes, cooler, &fakeFollowUpSender{})

	job.Run(context.Background(), time.Now())
	if len(cooler.demoted) != 1 || cooler.demoted[0] != quoteID {
		t.Errorf("demoted = %v, want the exhausted quote", cooler.demoted)
	}
}

func TestRunSkipsDemotionWhilePendingRemain(t *testing.T) {
	quoteID := uuid.New()
	store := &fakeScheduleStore{
		due:     []*repository.Schedule{dueSchedule(quoteID, 3)},
		pending: map[uuid.UUID]int{quoteID: 1},
	}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: activeView("jan@example.com")}}
	cooler := &fakeCooler{}
	job := newTestJob(store, quotes, cooler, &fakeFollowUpSender{})

	job.Run(context.Background(), time.Now())
	if len(cooler.demoted) != 0 {
		t.Errorf("demoted = %v, want none while schedules remain", cooler.demoted)
	}
}

func TestRunSkipsDemotionBeforeFinalSequence(t *testing.T) {
	quoteID := uuid.New()
	store := &fakeScheduleStore{
		due:     []*repository.Schedule{dueSchedule(quoteID, 2)},
		pending: map[uuid.UUID]int{quoteID: 0},
	}
	quotes := &fakeQuoteReader{views: map[uuid.UUID]QuoteView{quoteID: activeView("jan@example.com")}}
	cooler := &fakeCooler{}
	job := newTestJob(store, quotes, cooler, &fakeFollowUpSender{})

	job.Run(context.Background(), time.Now())
	if len(cooler.demoted) != 0 {
		t.Errorf("demoted = %v, want none before the final sequence", cooler.demoted)
	}
}

package cron

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doorcraft_backend/internal/aging"
	"doorcraft_backend/internal/followup"
	"doorcraft_backend/internal/followup/repository"
	"doorcraft_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type emptyScheduleStore struct{}

func (emptyScheduleStore) DuePending(_ context.Context, _ time.Time, _ int) ([]*repository.Schedule, error) {
	return nil, nil
}
func (emptyScheduleStore) Cancel(_ context.Context, _ uuid.UUID) error { return nil }
func (emptyScheduleStore) MarkSent(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}
func (emptyScheduleStore) PendingCountForQuote(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}
func (emptyScheduleStore) AppendLog(_ context.Context, _ repository.LogEntry) error { return nil }

type emptyQuoteReader struct{}

func (emptyQuoteReader) GetFollowUpView(_ context.Context, _ uuid.UUID) (followup.QuoteView, error) {
	return followup.QuoteView{}, nil
}

type noopCooler struct{}

func (noopCooler) SystemDemoteToCold(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

type noopSender struct{}

func (noopSender) SendFollowUpEmail(_ context.Context, _, _, _, _ string, _ int) error { return nil }
func (noopSender) SendPaymentReceiptEmail(_ context.Context, _, _, _, _ string, _ int64) error {
	return nil
}
func (noopSender) SendInternalEmail(_ context.Context, _, _, _ string, _ []string, _ string) error {
	return nil
}

type stubMessagingConfig struct{}

func (stubMessagingConfig) GetPortalBaseURL() string  { return "https://portal.example.com" }
func (stubMessagingConfig) GetContactPageURL() string { return "https://example.com/contact" }

func TestRunReturnsBatchSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")

	followUpJob := followup.NewJob(emptyScheduleStore{}, emptyQuoteReader{}, noopCooler{}, noopSender{}, stubMessagingConfig{}, log)
	agingJob := aging.NewJob(log,
		aging.AgerFunc("quotes", func(context.Context, time.Time) (int64, error) { return 3, nil }),
		aging.AgerFunc("leads", func(context.Context, time.Time) (int64, error) { return 2, nil }),
	)
	module := NewModule(followUpJob, agingJob, log)

	engine := gin.New()
	engine.POST("/cron/run", module.Run)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron/run", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Sent != 0 {
		t.Errorf("sent = %d, want 0", resp.Sent)
	}
	if resp.Aged != 5 {
		t.Errorf("aged = %d, want 5", resp.Aged)
	}
	if resp.Errors != 0 {
		t.Errorf("errors = %d, want 0", resp.Errors)
	}
	if resp.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}
}

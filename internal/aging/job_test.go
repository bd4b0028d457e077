package aging

import (
	"context"
	"errors"
	"testing"
	"time"

	"doorcraft_backend/platform/logger"
)

type fakeAger struct {
	name  string
	count int64
	err   error
	calls int
}

func (f *fakeAger) Name() string { return f.name }

func (f *fakeAger) AgeBulk(_ context.Context, _ time.Time) (int64, error) {
	f.calls++
	return f.count, f.err
}

func TestRunAggregatesAcrossDomains(t *testing.T) {
	quotes := &fakeAger{name: "quotes", count: 3}
	leads := &fakeAger{name: "leads", count: 2}
	job := NewJob(logger.New("development"), quotes, leads)

	aged, errs := job.Run(context.Background(), time.Now())
	if aged != 5 || errs != 0 {
		t.Fatalf("aged=%d errs=%d, want 5/0", aged, errs)
	}
	if quotes.calls != 1 || leads.calls != 1 {
		t.Error("every domain must run exactly once")
	}
}

func TestRunFailingDomainDoesNotBlockOthers(t *testing.T) {
	quotes := &fakeAger{name: "quotes", err: errors.New("connection reset")}
	leads := &fakeAger{name: "leads", count: 4}
	job := NewJob(logger.New("development"), quotes, leads)

	aged, errs := job.Run(context.Background(), time.Now())
	if aged != 4 || errs != 1 {
		t.Fatalf("aged=%d errs=%d, want 4/1", aged, errs)
	}
	if leads.calls != 1 {
		t.Error("later domains must still run after a failure")
	}
}

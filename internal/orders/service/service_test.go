package service

import (
	"context"
	"testing"
	"time"

	"doorcraft_backend/internal/orders/domain"
	"doorcraft_backend/internal/orders/repository"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeTrackingStore struct {
	tracking      *repository.OrderTracking
	drawingStatus string
	casMiss       bool

	created      *repository.OrderTracking
	depositMarks []int
	statusSets   []string
	updateCalls  int
}

func (f *fakeTrackingStore) Create(_ context.Context, t *repository.OrderTracking) error {
	f.created = t
	f.tracking = t
	return nil
}

func (f *fakeTrackingStore) GetByQuoteID(_ context.Context, _ uuid.UUID) (*repository.OrderTracking, error) {
	if f.tracking == nil {
		return nil, apperr.NotFound("order tracking not found")
	}
	copied := *f.tracking
	return &copied, nil
}

func (f *fakeTrackingStore) LatestApprovalDrawingStatus(_ context.Context, _ uuid.UUID) (string, error) {
	return f.drawingStatus, nil
}

func (f *fakeTrackingStore) UpdateStage(_ context.Context, p repository.UpdateStageParams) (*repository.OrderTracking, error) {
	f.updateCalls++
	if f.casMiss || f.tracking == nil || f.tracking.Stage != p.ExpectedStage {
		return nil, nil
	}
	f.tracking.Stage = p.NewStage
	if p.NewStatus != nil {
		f.tracking.Status = *p.NewStatus
	}
	copied := *f.tracking
	return &copied, nil
}

func (f *fakeTrackingStore) MarkDeposit(_ context.Context, _ uuid.UUID, deposit int, paidAt time.Time) (bool, error) {
	f.depositMarks = append(f.depositMarks, deposit)
	switch deposit {
	case 1:
		if f.tracking.Deposit1Paid {
			return false, nil
		}
		f.tracking.Deposit1Paid = true
		f.tracking.Deposit1PaidAt = &paidAt
	case 2:
		if f.tracking.Deposit2Paid {
			return false, nil
		}
		f.tracking.Deposit2Paid = true
		f.tracking.Deposit2PaidAt = &paidAt
	}
	return true, nil
}

func (f *fakeTrackingStore) SetStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.statusSets = append(f.statusSets, status)
	f.tracking.Status = status
	return nil
}

type fakeQuoteStore struct {
	view         QuoteOrderView
	viewErr      error
	portalStages []string
}

func (f *fakeQuoteStore) GetOrderView(_ context.Context, _ uuid.UUID) (QuoteOrderView, error) {
	return f.view, f.viewErr
}

func (f *fakeQuoteStore) SetPortalStage(_ context.Context, _ uuid.UUID, stage string) error {
	f.portalStages = append(f.portalStages, stage)
	return nil
}

func newTestService(store *fakeTrackingStore, quotes *fakeQuoteStore) *Service {
	return New(store, quotes, logger.New("development"))
}

func existingTracking(stage string) *repository.OrderTracking {
	return &repository.OrderTracking{
		ID:                  uuid.New(),
		QuoteID:             uuid.New(),
		Status:              domain.StatusPending,
		Stage:               stage,
		Deposit1AmountCents: 50000,
		Deposit2AmountCents: 50000,
	}
}

func TestCreateTrackingRequiresSignedDrawing(t *testing.T) {
	store := &fakeTrackingStore{drawingStatus: "pending_review"}
	quotes := &fakeQuoteStore{view: QuoteOrderView{QuoteNumber: "Q-2026-0001", TotalCents: 100000}}
	svc := newTestService(store, quotes)

	_, err := svc.CreateTracking(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.created != nil {
		t.Fatal("no tracking row should be persisted")
	}
}

func TestCreateTrackingRejectsDuplicate(t *testing.T) {
	store := &fakeTrackingStore{
		drawingStatus: "signed",
		tracking:      existingTracking(domain.StageManufacturing),
	}
	quotes := &fakeQuoteStore{view: QuoteOrderView{QuoteNumber: "Q-2026-0001", TotalCents: 100000}}
	svc := newTestService(store, quotes)

	_, err := svc.CreateTracking(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateTrackingSplitsDeposits(t *testing.T) {
	store := &fakeTrackingStore{drawingStatus: "signed"}
	quotes := &fakeQuoteStore{view: QuoteOrderView{QuoteNumber: "Q-2026-0001", TotalCents: 245001}}
	svc := newTestService(store, quotes)

	tracking, err := svc.CreateTracking(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracking.Stage != domain.StageDeposit1Pending {
		t.Errorf("initial stage = %s, want %s", tracking.Stage, domain.StageDeposit1Pending)
	}
	if tracking.Status != domain.StatusPending {
		t.Errorf("initial status = %s, want %s", tracking.Status, domain.StatusPending)
	}
	if got := tracking.Deposit1AmountCents + tracking.Deposit2AmountCents; got != 245001 {
		t.Errorf("deposits sum to %d, want full total", got)
	}
	if tracking.Deposit1AmountCents != 122500 {
		t.Errorf("deposit 1 = %d, want 122500", tracking.Deposit1AmountCents)
	}
	if len(quotes.portalStages) != 1 || quotes.portalStages[0] != domain.StageDeposit1Pending {
		t.Errorf("portal stage mirror = %v", quotes.portalStages)
	}
}

func TestApplyTransitionRejectsInvalidEdge(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageShipping)}
	svc := newTestService(store, &fakeQuoteStore{})

	_, err := svc.ApplyTransition(context.Background(), ApplyInput{
		QuoteID: store.tracking.QuoteID,
		ToStage: domain.StageManufacturing,
		Source:  SourceAdmin,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.updateCalls != 0 {
		t.Fatal("no write should happen for an invalid edge")
	}
	if store.tracking.Stage != domain.StageShipping {
		t.Fatal("stage must be left unchanged")
	}
}

func TestApplyTransitionConflictOnConcurrentChange(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageManufacturing), casMiss: true}
	svc := newTestService(store, &fakeQuoteStore{})

	_, err := svc.ApplyTransition(context.Background(), ApplyInput{
		QuoteID: store.tracking.QuoteID,
		ToStage: domain.StageDeposit2Pending,
		Source:  SourceAdmin,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplyTransitionMirrorsPortalStage(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageDeposit2Pending)}
	quotes := &fakeQuoteStore{view: QuoteOrderView{QuoteNumber: "Q-2026-0002"}}
	svc := newTestService(store, quotes)

	updated, err := svc.ApplyTransition(context.Background(), ApplyInput{
		QuoteID: store.tracking.QuoteID,
		ToStage: domain.StageShipping,
		Source:  SourceAdmin,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stage != domain.StageShipping {
		t.Errorf("stage = %s, want %s", updated.Stage, domain.StageShipping)
	}
	if len(quotes.portalStages) != 1 || quotes.portalStages[0] != domain.StageShipping {
		t.Errorf("portal stage mirror = %v", quotes.portalStages)
	}
}

func TestMarkDepositPaidAdvancesStageAndStatus(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageDeposit1Pending)}
	svc := newTestService(store, &fakeQuoteStore{})

	updated, err := svc.MarkDepositPaid(context.Background(), store.tracking.QuoteID, 1, SourcePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stage != domain.StageManufacturing {
		t.Errorf("stage = %s, want %s", updated.Stage, domain.StageManufacturing)
	}
	if updated.Status != domain.StatusInProgress {
		t.Errorf("status = %s, want %s", updated.Status, domain.StatusInProgress)
	}
	if !store.tracking.Deposit1Paid {
		t.Error("deposit 1 flag not set")
	}
}

func TestMarkDepositPaidIsIdempotent(t *testing.T) {
	tracking := existingTracking(domain.StageManufacturing)
	tracking.Deposit1Paid = true
	paidAt := time.Now().Add(-time.Hour)
	tracking.Deposit1PaidAt = &paidAt
	store := &fakeTrackingStore{tracking: tracking}
	svc := newTestService(store, &fakeQuoteStore{})

	updated, err := svc.MarkDepositPaid(context.Background(), tracking.QuoteID, 1, SourcePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.depositMarks) != 0 {
		t.Fatal("repeat call must not write")
	}
	if updated.Stage != domain.StageManufacturing {
		t.Errorf("stage = %s, want unchanged manufacturing", updated.Stage)
	}
	if !updated.Deposit1PaidAt.Equal(paidAt) {
		t.Error("original paid timestamp must be preserved")
	}
}

func TestMarkDepositPaidWhenStageAlreadyAdvanced(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageShipping)}
	svc := newTestService(store, &fakeQuoteStore{})

	updated, err := svc.MarkDepositPaid(context.Background(), store.tracking.QuoteID, 2, SourcePayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want %s", updated.Status, domain.StatusCompleted)
	}
	if !store.tracking.Deposit2Paid {
		t.Error("deposit 2 flag not set")
	}
	if store.updateCalls != 0 {
		t.Error("no stage transition should run when stage already advanced")
	}
}

func TestMarkDepositPaidRejectsWrongStage(t *testing.T) {
	store := &fakeTrackingStore{tracking: existingTracking(domain.StageDeposit1Pending)}
	svc := newTestService(store, &fakeQuoteStore{})

	_, err := svc.MarkDepositPaid(context.Background(), store.tracking.QuoteID, 2, SourcePayment)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.tracking.Deposit2Paid {
		t.Error("deposit 2 must remain unpaid")
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"doorcraft_backend/internal/payments/repository"
	"doorcraft_backend/internal/payments/transport"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

type fakePaymentStore struct {
	payment *repository.Payment
}

func (f *fakePaymentStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Payment, error) {
	if f.payment == nil || f.payment.ID != id {
		return nil, apperr.NotFound("payment not found")
	}
	copied := *f.payment
	return &copied, nil
}

func (f *fakePaymentStore) ConfirmIfPending(_ context.Context, id uuid.UUID, params repository.ConfirmParams) (*repository.Payment, bool, error) {
	if f.payment == nil || f.payment.ID != id {
		return nil, false, apperr.NotFound("payment not found")
	}
	if f.payment.Status != repository.StatusPending {
		copied := *f.payment
		return &copied, false, nil
	}
	f.payment.Status = repository.StatusCompleted
	f.payment.PaidAt = &params.PaidAt
	if params.Method != nil {
		f.payment.Method = params.Method
	}
	if params.Reference != nil {
		f.payment.Reference = params.Reference
	}
	copied := *f.payment
	return &copied, true, nil
}

type fakeCascader struct {
	calls []int
	err   error
}

func (f *fakeCascader) MarkDepositPaid(_ context.Context, _ uuid.UUID, deposit int) error {
	f.calls = append(f.calls, deposit)
	return f.err
}

type fakeReceiptReader struct {
	view ReceiptView
	err  error
}

func (f *fakeReceiptReader) GetReceiptView(_ context.Context, _ uuid.UUID) (ReceiptView, error) {
	return f.view, f.err
}

type fakeSender struct {
	receipts int
	err      error
}

func (f *fakeSender) SendFollowUpEmail(_ context.Context, _, _, _, _ string, _ int) error {
	return nil
}

func (f *fakeSender) SendPaymentReceiptEmail(_ context.Context, _, _, _, _ string, _ int64) error {
	f.receipts++
	return f.err
}

func (f *fakeSender) SendInternalEmail(_ context.Context, _, _, _ string, _ []string, _ string) error {
	return nil
}

func pendingPayment(paymentType string) *repository.Payment {
	return &repository.Payment{
		ID:          uuid.New(),
		QuoteID:     uuid.New(),
		PaymentType: paymentType,
		Status:      repository.StatusPending,
		AmountCents: 122500,
	}
}

func newTestService(store *fakePaymentStore, cascader *fakeCascader, receipts *fakeReceiptReader, sender *fakeSender) *Service {
	return New(store, cascader, receipts, sender, logger.New("development"))
}

func TestSettleAdvanceCascadesFirstDeposit(t *testing.T) {
	store := &fakePaymentStore{payment: pendingPayment(repository.TypeAdvance50)}
	cascader := &fakeCascader{}
	sender := &fakeSender{}
	receipts := &fakeReceiptReader{view: ReceiptView{
		QuoteNumber:   "Q-2026-0001",
		ConsumerName:  "Jan de Vries",
		ConsumerEmail: "jan@example.com",
	}}
	svc := newTestService(store, cascader, receipts, sender)

	settled, err := svc.Settle(context.Background(), store.payment.ID, transport.SettleRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settled.Status != repository.StatusCompleted {
		t.Errorf("status = %s, want %s", settled.Status, repository.StatusCompleted)
	}
	if settled.PaidAt == nil {
		t.Error("paid timestamp must be set")
	}
	if len(cascader.calls) != 1 || cascader.calls[0] != 1 {
		t.Errorf("cascade calls = %v, want deposit 1", cascader.calls)
	}
	if sender.receipts != 1 {
		t.Errorf("receipt emails sent = %d, want 1", sender.receipts)
	}
}

func TestSettleBalanceCascadesSecondDeposit(t *testing.T) {
	store := &fakePaymentStore{payment: pendingPayment(repository.TypeBalance50)}
	cascader := &fakeCascader{}
	svc := newTestService(store, cascader, &fakeReceiptReader{}, &fakeSender{})

	_, err := svc.Settle(context.Background(), store.payment.ID, transport.SettleRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cascader.calls) != 1 || cascader.calls[0] != 2 {
		t.Errorf("cascade calls = %v, want deposit 2", cascader.calls)
	}
}

func TestSettleAlreadyCompletedIsNoOp(t *testing.T) {
	payment := pendingPayment(repository.TypeAdvance50)
	payment.Status = repository.StatusCompleted
	paidAt := time.Now().Add(-time.Hour).UTC()
	payment.PaidAt = &paidAt
	store := &fakePaymentStore{payment: payment}
	cascader := &fakeCascader{}
	sender := &fakeSender{}
	svc := newTestService(store, cascader, &fakeReceiptReader{}, sender)

	settled, err := svc.Settle(context.Background(), payment.ID, transport.SettleRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cascader.calls) != 0 {
		t.Fatal("repeat settlement must not cascade")
	}
	if sender.receipts != 0 {
		t.Fatal("repeat settlement must not resend the receipt")
	}
	if !settled.PaidAt.Equal(paidAt) {
		t.Error("original paid timestamp must be preserved")
	}
}

func TestSettleOnHoldIsNotConfirmed(t *testing.T) {
	payment := pendingPayment(repository.TypeAdvance50)
	payment.Status = repository.StatusOnHold
	store := &fakePaymentStore{payment: payment}
	cascader := &fakeCascader{}
	svc := newTestService(store, cascader, &fakeReceiptReader{}, &fakeSender{})

	settled, err := svc.Settle(context.Background(), payment.ID, transport.SettleRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settled.Status != repository.StatusOnHold {
		t.Errorf("status = %s, want untouched on_hold", settled.Status)
	}
	if len(cascader.calls) != 0 {
		t.Fatal("held payment must not cascade")
	}
}

func TestSettleCascadeFailurePropagates(t *testing.T) {
	store := &fakePaymentStore{payment: pendingPayment(repository.TypeAdvance50)}
	cascader := &fakeCascader{err: errors.New("stage changed concurrently")}
	svc := newTestService(store, cascader, &fakeReceiptReader{}, &fakeSender{})

	_, err := svc.Settle(context.Background(), store.payment.ID, transport.SettleRequest{})
	if err == nil {
		t.Fatal("expected cascade failure to propagate")
	}
}

func TestSettleReceiptFailureDoesNotFailSettlement(t *testing.T) {
	store := &fakePaymentStore{payment: pendingPayment(repository.TypeAdvance50)}
	sender := &fakeSender{err: errors.New("smtp down")}
	receipts := &fakeReceiptReader{view: ReceiptView{
		QuoteNumber:   "Q-2026-0001",
		ConsumerName:  "Jan de Vries",
		ConsumerEmail: "jan@example.com",
	}}
	svc := newTestService(store, &fakeCascader{}, receipts, sender)

	settled, err := svc.Settle(context.Background(), store.payment.ID, transport.SettleRequest{})
	if err != nil {
		t.Fatalf("settlement must survive receipt failure, got %v", err)
	}
	if settled.Status != repository.StatusCompleted {
		t.Errorf("status = %s, want %s", settled.Status, repository.StatusCompleted)
	}
}

func TestSettleUsesProvidedPaidAt(t *testing.T) {
	store := &fakePaymentStore{payment: pendingPayment(repository.TypeBalance50)}
	svc := newTestService(store, &fakeCascader{}, &fakeReceiptReader{}, &fakeSender{})

	paidAt := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	settled, err := svc.Settle(context.Background(), store.payment.ID, transport.SettleRequest{PaidAt: &paidAt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settled.PaidAt == nil || !settled.PaidAt.Equal(paidAt) {
		t.Errorf("paidAt = %v, want %v", settled.PaidAt, paidAt)
	}
}

// Package repository provides Postgres persistence for payments.
package repository

import (
	"context"
	"errors"
	"time"

	"doorcraft_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Payment types.
const (
	TypeAdvance50 = "advance_50"
	TypeBalance50 = "balance_50"
)

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"
)

// Payment is the persistence model for a payment.
type Payment struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	PaymentType string
	Status      string
	Method      *string
	Reference   *string
	AmountCents int64
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConfirmParams carries the settlement fields persisted on confirmation.
type ConfirmParams struct {
	Method    *string
	Reference *string
	PaidAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const paymentColumns = `id, quote_id, payment_type, status, method, reference,
	amount_cents, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.QuoteID, &p.PaymentType, &p.Status, &p.Method, &p.Reference,
		&p.AmountCents, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("payment not found")
	}
	return p, err
}

// ConfirmIfPending completes the payment only when it is still pending. The
// boolean reports whether this call performed the confirmation; when false
// the returned payment reflects its unchanged current state.
func (r *Repository) ConfirmIfPending(ctx context.Context, id uuid.UUID, params ConfirmParams) (*Payment, bool, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE payments
		    SET status = 'completed',
		        method = COALESCE($2, method),
		        reference = COALESCE($3, reference),
		        paid_at = $4,
		        updated_at = now()
		  WHERE id = $1 AND status = 'pending'
		  RETURNING `+paymentColumns,
		id, params.Method, params.Reference, params.PaidAt)
	p, err := scanPayment(row)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Either the payment does not exist or it already left the pending state.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

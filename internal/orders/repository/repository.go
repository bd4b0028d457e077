// Package repository provides Postgres persistence for order tracking.
package repository

import (
	"context"
	"errors"
	"time"

	"doorcraft_backend/internal/orders/domain"
	"doorcraft_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// OrderTracking is the persistence model for one fulfillment record.
// Exactly one row exists per quote.
type OrderTracking struct {
	ID                       uuid.UUID
	QuoteID                  uuid.UUID
	Status                   string
	Stage                    string
	Deposit1Paid             bool
	Deposit1AmountCents      int64
	Deposit1PaidAt           *time.Time
	Deposit2Paid             bool
	Deposit2AmountCents      int64
	Deposit2PaidAt           *time.Time
	TrackingNumber           *string
	Carrier                  *string
	EstimatedShipDate        *time.Time
	EstimatedDeliveryDate    *time.Time
	Notes                    *string
	ManufacturingStartedAt   *time.Time
	ManufacturingCompletedAt *time.Time
	ShippedAt                *time.Time
	DeliveredAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// UpdateStageParams describes a conditional stage update. ExpectedStage is
// compared in the WHERE clause so concurrent writers cannot both win.
// Optional fields are merged only when non-nil.
type UpdateStageParams struct {
	QuoteID               uuid.UUID
	ExpectedStage         string
	NewStage              string
	NewStatus             *string
	TrackingNumber        *string
	Carrier               *string
	EstimatedShipDate     *time.Time
	EstimatedDeliveryDate *time.Time
	Notes                 *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const trackingColumns = `id, quote_id, status, stage,
	deposit_1_paid, deposit_1_amount_cents, deposit_1_paid_at,
	deposit_2_paid, deposit_2_amount_cents, deposit_2_paid_at,
	tracking_number, carrier, estimated_ship_date, estimated_delivery_date, notes,
	manufacturing_started_at, manufacturing_completed_at, shipped_at, delivered_at,
	created_at, updated_at`

func scanTracking(row pgx.Row) (*OrderTracking, error) {
	var t OrderTracking
	err := row.Scan(
		&t.ID, &t.QuoteID, &t.Status, &t.Stage,
		&t.Deposit1Paid, &t.Deposit1AmountCents, &t.Deposit1PaidAt,
		&t.Deposit2Paid, &t.Deposit2AmountCents, &t.Deposit2PaidAt,
		&t.TrackingNumber, &t.Carrier, &t.EstimatedShipDate, &t.EstimatedDeliveryDate, &t.Notes,
		&t.ManufacturingStartedAt, &t.ManufacturingCompletedAt, &t.ShippedAt, &t.DeliveredAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tracking row. A second row for the same quote fails
// the unique constraint and maps to a conflict error.
func (r *Repository) Create(ctx context.Context, t *OrderTracking) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO order_tracking (id, quote_id, status, stage,
			deposit_1_amount_cents, deposit_2_amount_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.QuoteID, t.Status, t.Stage,
		t.Deposit1AmountCents, t.Deposit2AmountCents, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.Conflict("order tracking already exists for this quote")
		}
		return err
	}
	return nil
}

func (r *Repository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*OrderTracking, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+trackingColumns+` FROM order_tracking WHERE quote_id = $1`, quoteID)
	t, err := scanTracking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("order tracking not found")
	}
	return t, err
}

// LatestApprovalDrawingStatus returns the status of the most recent approval
// drawing for the quote, or "" when none exists.
func (r *Repository) LatestApprovalDrawingStatus(ctx context.Context, quoteID uuid.UUID) (string, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM approval_drawings
		 WHERE quote_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, quoteID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// UpdateStage performs the compare-and-set stage write. The stage-entry
// timestamp for the new stage is stamped in the same statement, and optional
// shipping fields merge atomically. Returns nil when the expected stage no
// longer matches.
func (r *Repository) UpdateStage(ctx context.Context, p UpdateStageParams) (*OrderTracking, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE order_tracking SET
			stage = $3,
			status = COALESCE($4, status),
			tracking_number = COALESCE($5, tracking_number),
			carrier = COALESCE($6, carrier),
			estimated_ship_date = COALESCE($7, estimated_ship_date),
			estimated_delivery_date = COALESCE($8, estimated_delivery_date),
			notes = COALESCE($9, notes),
			manufacturing_started_at = CASE WHEN $3 = '`+domain.StageManufacturing+`' THEN now() ELSE manufacturing_started_at END,
			manufacturing_completed_at = CASE WHEN $3 = '`+domain.StageDeposit2Pending+`' THEN now() ELSE manufacturing_completed_at END,
			shipped_at = CASE WHEN $3 = '`+domain.StageShipping+`' THEN now() ELSE shipped_at END,
			delivered_at = CASE WHEN $3 = '`+domain.StageDelivered+`' THEN now() ELSE delivered_at END,
			updated_at = now()
		 WHERE quote_id = $1 AND stage = $2
		 RETURNING `+trackingColumns,
		p.QuoteID, p.ExpectedStage, p.NewStage, p.NewStatus,
		p.TrackingNumber, p.Carrier, p.EstimatedShipDate, p.EstimatedDeliveryDate, p.Notes,
	)
	t, err := scanTracking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// MarkDeposit sets the paid flag and timestamp for deposit 1 or 2. The WHERE
// clause makes repeats no-ops; the return value reports whether this call
// flipped the flag.
func (r *Repository) MarkDeposit(ctx context.Context, quoteID uuid.UUID, deposit int, paidAt time.Time) (bool, error) {
	var query string
	switch deposit {
	case 1:
		query = `UPDATE order_tracking
			 SET deposit_1_paid = true, deposit_1_paid_at = $2, updated_at = now()
			 WHERE quote_id = $1 AND deposit_1_paid = false`
	case 2:
		query = `UPDATE order_tracking
			 SET deposit_2_paid = true, deposit_2_paid_at = $2, updated_at = now()
			 WHERE quote_id = $1 AND deposit_2_paid = false`
	default:
		return false, apperr.BadRequest("deposit must be 1 or 2")
	}

	tag, err := r.pool.Exec(ctx, query, quoteID, paidAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) SetStatus(ctx context.Context, quoteID uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE order_tracking SET status = $2, updated_at = now() WHERE quote_id = $1`,
		quoteID, status)
	return err
}

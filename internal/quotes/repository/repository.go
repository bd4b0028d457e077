// Package repository provides Postgres persistence for quotes.
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

// Quote is the persistence model for a quote.
type Quote struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	QuoteNumber     string
	LeadStatus      string
	PortalStage     *string
	GrandTotalCents int64
	FullIntent      bool
	LastActivityAt  time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MessagingView carries the render fields for outbound client messages.
type MessagingView struct {
	QuoteID       uuid.UUID
	QuoteNumber   string
	LeadStatus    string
	FullIntent    bool
	ConsumerName  string
	ConsumerEmail string
	DoorType      string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	var q Quote
	err := r.pool.QueryRow(ctx,
		`SELECT id, lead_id, quote_number, lead_status, portal_stage,
		        grand_total_cents, full_intent, last_activity_at, created_at, updated_at
		   FROM quotes WHERE id = $1`, id,
	).Scan(&q.ID, &q.LeadID, &q.QuoteNumber, &q.LeadStatus, &q.PortalStage,
		&q.GrandTotalCents, &q.FullIntent, &q.LastActivityAt, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("quote not found")
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetMessagingView joins the lead contact fields needed to render a message.
func (r *Repository) GetMessagingView(ctx context.Context, id uuid.UUID) (MessagingView, error) {
	var v MessagingView
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.quote_number, q.lead_status, q.full_intent,
		        l.consumer_name, l.consumer_email, l.door_type
		   FROM quotes q
		   JOIN leads l ON l.id = q.lead_id
		  WHERE q.id = $1`, id,
	).Scan(&v.QuoteID, &v.QuoteNumber, &v.LeadStatus, &v.FullIntent,
		&v.ConsumerName, &v.ConsumerEmail, &v.DoorType)
	if errors.Is(err, pgx.ErrNoRows) {
		return MessagingView{}, apperr.NotFound("quote not found")
	}
	if err != nil {
		return MessagingView{}, err
	}
	return v, nil
}

// SetPortalStage writes the client-facing mirror of the order stage.
func (r *Repository) SetPortalStage(ctx context.Context, id uuid.UUID, stage string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quotes SET portal_stage = $2, updated_at = now() WHERE id = $1`,
		id, stage)
	return err
}

// PromoteLeadStatus raises the status and counts as activity.
func (r *Repository) PromoteLeadStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quotes SET lead_status = $2, last_activity_at = now(), updated_at = now()
		 WHERE id = $1`, id, status)
	return err
}

// DemoteToCold lowers the status to cold only from the demotable tiers.
// Returns whether a row changed.
func (r *Repository) DemoteToCold(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotes SET lead_status = 'cold', updated_at = now()
		 WHERE id = $1 AND lead_status IN ('new', 'warm', 'hot')`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DecayBulk applies one aging threshold as a set-based conditional update
// and returns the number of demoted rows.
func (r *Repository) DecayBulk(ctx context.Context, target string, sources []string, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotes SET lead_status = $1, updated_at = now()
		 WHERE lead_status = ANY($2) AND last_activity_at < $3`,
		target, sources, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// TouchActivity resets the inactivity clock.
func (r *Repository) TouchActivity(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quotes SET last_activity_at = now(), updated_at = now() WHERE id = $1`, id)
	return err
}

// Package repository provides Postgres persistence for leads.
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

// Lead is the persistence model for a sales lead.
type Lead struct {
	ID             uuid.UUID
	ConsumerName   string
	ConsumerEmail  string
	ConsumerPhone  *string
	DoorType       string
	Temperature    string
	WorkflowStatus *string
	HasQuote       bool
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var l Lead
	err := r.pool.QueryRow(ctx,
		`SELECT id, consumer_name, consumer_email, consumer_phone, door_type,
		        temperature, workflow_status, has_quote, last_activity_at, created_at, updated_at
		   FROM leads WHERE id = $1`, id,
	).Scan(&l.ID, &l.ConsumerName, &l.ConsumerEmail, &l.ConsumerPhone, &l.DoorType,
		&l.Temperature, &l.WorkflowStatus, &l.HasQuote, &l.LastActivityAt, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// RaiseTemperature raises the tier and counts as activity.
func (r *Repository) RaiseTemperature(ctx context.Context, id uuid.UUID, temperature string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leads SET temperature = $2, last_activity_at = now(), updated_at = now()
		 WHERE id = $1`, id, temperature)
	return err
}

// SetWorkflowStatus updates the admin-set workflow classification.
func (r *Repository) SetWorkflowStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leads SET workflow_status = $2, last_activity_at = now(), updated_at = now()
		 WHERE id = $1`, id, status)
	return err
}

// DecayBulk applies one aging threshold as a set-based conditional update
// and returns the number of demoted rows.
func (r *Repository) DecayBulk(ctx context.Context, target string, sources []string, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET temperature = $1, updated_at = now()
		 WHERE temperature = ANY($2) AND last_activity_at < $3`,
		target, sources, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

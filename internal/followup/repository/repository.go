// Package repository provides Postgres persistence for follow-up schedules.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schedule statuses.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusCancelled = "cancelled"
)

// Schedule is the persistence model for a planned follow-up message.
type Schedule struct {
	ID             uuid.UUID
	QuoteID        uuid.UUID
	SequenceNumber int
	ScheduledFor   time.Time
	Status         string
	SentAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LogEntry records a delivered follow-up for audit.
type LogEntry struct {
	ScheduleID     uuid.UUID
	QuoteID        uuid.UUID
	SequenceNumber int
	Recipient      string
	SentAt         time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const scheduleColumns = `id, quote_id, sequence_number, scheduled_for, status,
	sent_at, created_at, updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.QuoteID, &s.SequenceNumber, &s.ScheduledFor, &s.Status,
		&s.SentAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DuePending returns pending schedules whose time has come, oldest first.
func (r *Repository) DuePending(ctx context.Context, now time.Time, limit int) ([]*Schedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+`
		   FROM follow_up_schedules
		  WHERE status = 'pending' AND scheduled_for <= $1
		  ORDER BY scheduled_for ASC
		  LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Cancel marks a schedule cancelled. Only pending schedules are affected.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE follow_up_schedules
		    SET status = 'cancelled', updated_at = now()
		  WHERE id = $1 AND status = 'pending'`, id)
	return err
}

// MarkSent marks a schedule delivered.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE follow_up_schedules
		    SET status = 'sent', sent_at = $2, updated_at = now()
		  WHERE id = $1`, id, sentAt)
	return err
}

// PendingCountForQuote counts the remaining pending schedules of a quote.
func (r *Repository) PendingCountForQuote(ctx context.Context, quoteID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM follow_up_schedules
		  WHERE quote_id = $1 AND status = 'pending'`, quoteID).Scan(&count)
	return count, err
}

// AppendLog records a delivery in the follow-up audit log.
func (r *Repository) AppendLog(ctx context.Context, entry LogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO follow_up_log (id, schedule_id, quote_id, sequence_number, recipient, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), entry.ScheduleID, entry.QuoteID, entry.SequenceNumber, entry.Recipient, entry.SentAt)
	return err
}

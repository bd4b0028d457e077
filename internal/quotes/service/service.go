// Package service holds the business logic for quotes. Lead status has two
// narrow entry points: AdminPromote raises it, SystemDemoteToCold lowers it.
// The aging pass lowers it in bulk. No shared setter exists.
package service

import (
	"context"
	"fmt"
	"time"

	"doorcraft_backend/internal/quotes/domain"
	"doorcraft_backend/internal/quotes/repository"
	"doorcraft_backend/internal/quotes/transport"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for quotes.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID returns a quote by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Quote, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMessagingView returns the render fields for outbound messages.
func (s *Service) GetMessagingView(ctx context.Context, id uuid.UUID) (repository.MessagingView, error) {
	return s.repo.GetMessagingView(ctx, id)
}

// SetPortalStage writes the portal mirror of the order stage.
func (s *Service) SetPortalStage(ctx context.Context, id uuid.UUID, stage string) error {
	return s.repo.SetPortalStage(ctx, id, stage)
}

// AdminPromote raises the lead status. Promotion counts as activity, so the
// inactivity clock restarts.
func (s *Service) AdminPromote(ctx context.Context, id uuid.UUID, target string) (*repository.Quote, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanPromote(quote.LeadStatus, target) {
		return nil, apperr.Validation(fmt.Sprintf(
			"cannot promote lead status from %q to %q", quote.LeadStatus, target))
	}

	if err := s.repo.PromoteLeadStatus(ctx, id, target); err != nil {
		return nil, err
	}

	s.log.Info("quote lead status promoted", "quoteId", id, "from", quote.LeadStatus, "to", target)
	return s.repo.GetByID(ctx, id)
}

// SystemDemoteToCold lowers the lead status to cold, but only from the
// demotable tiers; further-progressed statuses are left untouched.
func (s *Service) SystemDemoteToCold(ctx context.Context, id uuid.UUID) (bool, error) {
	demoted, err := s.repo.DemoteToCold(ctx, id)
	if err != nil {
		return false, err
	}
	if demoted {
		s.log.Info("quote lead status demoted to cold", "quoteId", id)
	}
	return demoted, nil
}

// AgeBulk runs the quote aging thresholds, most-decayed first, and returns
// the total number of demoted rows.
func (s *Service) AgeBulk(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, threshold := range domain.DecayThresholds {
		count, err := s.repo.DecayBulk(ctx, threshold.Target, threshold.Sources, now.Add(-threshold.After))
		if err != nil {
			return total, fmt.Errorf("decay quotes to %s: %w", threshold.Target, err)
		}
		total += count
	}
	return total, nil
}

// TouchActivity resets the inactivity clock for a quote.
func (s *Service) TouchActivity(ctx context.Context, id uuid.UUID) error {
	return s.repo.TouchActivity(ctx, id)
}

// ToResponse maps a persistence record to its API shape.
func ToResponse(q *repository.Quote) transport.QuoteResponse {
	return transport.QuoteResponse{
		ID:              q.ID,
		LeadID:          q.LeadID,
		QuoteNumber:     q.QuoteNumber,
		LeadStatus:      q.LeadStatus,
		PortalStage:     q.PortalStage,
		GrandTotalCents: q.GrandTotalCents,
		FullIntent:      q.FullIntent,
		LastActivityAt:  q.LastActivityAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

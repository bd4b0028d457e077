// Package service holds the business logic for leads. Temperature is raised
// only here (admin action) and lowered only by the aging pass.
package service

import (
	"context"
	"fmt"
	"time"

	"doorcraft_backend/internal/leads/domain"
	"doorcraft_backend/internal/leads/repository"
	"doorcraft_backend/internal/leads/transport"
	"doorcraft_backend/platform/apperr"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for leads.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID returns a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// AdminRaiseTemperature raises the temperature tier. Raising counts as
// activity, so the inactivity clock restarts.
func (s *Service) AdminRaiseTemperature(ctx context.Context, id uuid.UUID, target string) (*repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanRaise(lead.Temperature, target) {
		return nil, apperr.Validation(fmt.Sprintf(
			"cannot raise temperature from %q to %q", lead.Temperature, target))
	}

	if err := s.repo.RaiseTemperature(ctx, id, target); err != nil {
		return nil, err
	}

	s.log.Info("lead temperature raised", "leadId", id, "from", lead.Temperature, "to", target)
	return s.repo.GetByID(ctx, id)
}

// SetWorkflowStatus updates the admin workflow classification.
func (s *Service) SetWorkflowStatus(ctx context.Context, id uuid.UUID, status string) (*repository.Lead, error) {
	if !domain.IsKnownWorkflowStatus(status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown workflow status %q", status))
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetWorkflowStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// AgeBulk runs the lead aging thresholds, most-decayed first, and returns
// the total number of demoted rows.
func (s *Service) AgeBulk(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, threshold := range domain.DecayThresholds {
		count, err := s.repo.DecayBulk(ctx, threshold.Target, threshold.Sources, now.Add(-threshold.After))
		if err != nil {
			return total, fmt.Errorf("decay leads to %s: %w", threshold.Target, err)
		}
		total += count
	}
	return total, nil
}

// ToResponse maps a persistence record to its API shape.
func ToResponse(l *repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             l.ID,
		ConsumerName:   l.ConsumerName,
		ConsumerEmail:  l.ConsumerEmail,
		ConsumerPhone:  l.ConsumerPhone,
		DoorType:       l.DoorType,
		Temperature:    l.Temperature,
		WorkflowStatus: l.WorkflowStatus,
		HasQuote:       l.HasQuote,
		LastActivityAt: l.LastActivityAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

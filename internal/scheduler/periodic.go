package scheduler

import (
	"context"
	"time"

	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/logger"
)

// PeriodicEnqueuer drives the recurring batch jobs over the task queue when
// no external scheduler calls the batch endpoint.
type PeriodicEnqueuer struct {
	client           *Client
	followUpInterval time.Duration
	agingInterval    time.Duration
	log              *logger.Logger
}

func NewPeriodicEnqueuer(cfg config.SchedulerConfig, client *Client, log *logger.Logger) *PeriodicEnqueuer {
	followUp := cfg.GetFollowUpInterval()
	if followUp <= 0 {
		followUp = 5 * time.Minute
	}
	aging := cfg.GetAgingInterval()
	if aging <= 0 {
		aging = time.Hour
	}

	return &PeriodicEnqueuer{
		client:           client,
		followUpInterval: followUp,
		agingInterval:    aging,
		log:              log,
	}
}

func (p *PeriodicEnqueuer) Run(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}

	followUpTicker := time.NewTicker(p.followUpInterval)
	defer followUpTicker.Stop()
	agingTicker := time.NewTicker(p.agingInterval)
	defer agingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-followUpTicker.C:
			if err := p.client.EnqueueFollowUpDispatch(ctx); err != nil {
				p.log.Warn("failed to enqueue follow-up dispatch", "error", err)
			}
		case <-agingTicker.C:
			if err := p.client.EnqueueAgingSweep(ctx); err != nil {
				p.log.Warn("failed to enqueue aging sweep", "error", err)
			}
		}
	}
}

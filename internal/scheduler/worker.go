package scheduler

import (
	"context"
	"fmt"
	"time"

	"doorcraft_backend/internal/aging"
	"doorcraft_backend/internal/followup"
	"doorcraft_backend/internal/notify"
	"doorcraft_backend/internal/notify/outbox"
	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	followUp *followup.Job
	aging    *aging.Job
	notify   *notify.Module
	log      *logger.Logger
}

func NewWorker(
	cfg config.SchedulerConfig,
	followUpJob *followup.Job,
	agingJob *aging.Job,
	notifyModule *notify.Module,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		followUp: followUpJob,
		aging:    agingJob,
		notify:   notifyModule,
		log:      log,
	}

	mux.HandleFunc(TaskFollowUpDispatch, w.handleFollowUpDispatch)
	mux.HandleFunc(TaskAgingSweep, w.handleAgingSweep)
	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)

	return w, nil
}

func (w *Worker) handleFollowUpDispatch(ctx context.Context, _ *asynq.Task) error {
	sent, errs := w.followUp.Run(ctx, time.Now().UTC())
	w.log.Info("follow-up dispatch task finished", "sent", sent, "errors", errs)
	return nil
}

func (w *Worker) handleAgingSweep(ctx context.Context, _ *asynq.Task) error {
	aged, errs := w.aging.Run(ctx, time.Now().UTC())
	w.log.Info("aging sweep task finished", "aged", aged, "errors", errs)
	return nil
}

func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	rec, err := w.notify.Outbox().GetByID(ctx, outboxID)
	if err != nil {
		return err
	}
	if rec.Status != outbox.StatusEnqueued && rec.Status != outbox.StatusPending {
		return nil
	}

	return w.notify.Deliver(ctx, rec)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

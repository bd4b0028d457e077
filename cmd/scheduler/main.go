package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doorcraft_backend/internal/adapters"
	"doorcraft_backend/internal/aging"
	"doorcraft_backend/internal/email"
	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/followup"
	followuprepo "doorcraft_backend/internal/followup/repository"
	"doorcraft_backend/internal/leads"
	"doorcraft_backend/internal/notify"
	"doorcraft_backend/internal/quotes"
	"doorcraft_backend/internal/scheduler"
	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/db"
	"doorcraft_backend/platform/logger"
	"doorcraft_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)
	val := validator.New()

	var channels []notify.Channel
	if ch := notify.NewEmailChannel(cfg, sender); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewChatChannel(cfg, log); ch != nil {
		channels = append(channels, ch)
	}
	dispatcher := notify.NewDispatcher(log, channels...)
	notifyModule := notify.New(pool, dispatcher, log)
	notifyModule.RegisterHandlers(eventBus)

	leadsModule := leads.NewModule(pool, val, log)
	quotesModule := quotes.NewModule(pool, val, log)

	followUpQuotes := adapters.NewFollowUpQuoteAdapter(quotesModule.Service())
	followUpJob := followup.NewJob(followuprepo.New(pool), followUpQuotes, followUpQuotes, sender, cfg, log)
	followUpJob.SetEventBus(eventBus)

	agingJob := aging.NewJob(log,
		aging.AgerFunc("quotes", quotesModule.Service().AgeBulk),
		aging.AgerFunc("leads", leadsModule.Service().AgeBulk),
	)

	outboxDispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = outboxDispatcher.Close() }()

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	enqueuer := scheduler.NewPeriodicEnqueuer(cfg, client, log)

	worker, err := scheduler.NewWorker(cfg, followUpJob, agingJob, notifyModule, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		outboxDispatcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		enqueuer.Run(gctx)
		return nil
	})
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

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
	"doorcraft_backend/internal/cron"
	"doorcraft_backend/internal/email"
	"doorcraft_backend/internal/events"
	"doorcraft_backend/internal/followup"
	followuprepo "doorcraft_backend/internal/followup/repository"
	apphttp "doorcraft_backend/internal/http"
	"doorcraft_backend/internal/http/router"
	"doorcraft_backend/internal/leads"
	"doorcraft_backend/internal/notify"
	"doorcraft_backend/internal/orders"
	"doorcraft_backend/internal/payments"
	"doorcraft_backend/internal/quotes"
	"doorcraft_backend/migrations"
	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/db"
	"doorcraft_backend/platform/logger"
	"doorcraft_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	dispatcher := notify.NewDispatcher(log, notifyChannels(cfg, sender, log)...)
	notifyModule := notify.New(pool, dispatcher, log)
	notifyModule.RegisterHandlers(eventBus)

	leadsModule := leads.NewModule(pool, val, log)
	quotesModule := quotes.NewModule(pool, val, log)

	quoteOrderAdapter := adapters.NewQuoteOrderAdapter(quotesModule.Service())
	ordersModule := orders.NewModule(pool, quoteOrderAdapter, eventBus, val, log)

	orderCascade := adapters.NewOrderCascadeAdapter(ordersModule.Service())
	receiptReader := adapters.NewReceiptAdapter(quotesModule.Service())
	paymentsModule := payments.NewModule(pool, orderCascade, receiptReader, sender, val, log)
	paymentsModule.Service().SetEventBus(eventBus)

	followUpQuotes := adapters.NewFollowUpQuoteAdapter(quotesModule.Service())
	followUpJob := followup.NewJob(followuprepo.New(pool), followUpQuotes, followUpQuotes, sender, cfg, log)
	followUpJob.SetEventBus(eventBus)

	agingJob := aging.NewJob(log,
		aging.AgerFunc("quotes", quotesModule.Service().AgeBulk),
		aging.AgerFunc("leads", leadsModule.Service().AgeBulk),
	)

	cronModule := cron.NewModule(followUpJob, agingJob, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			quotesModule,
			ordersModule,
			paymentsModule,
			cronModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func notifyChannels(cfg *config.Config, sender email.Sender, log *logger.Logger) []notify.Channel {
	var channels []notify.Channel
	if ch := notify.NewEmailChannel(cfg, sender); ch != nil {
		channels = append(channels, ch)
	}
	if ch := notify.NewChatChannel(cfg, log); ch != nil {
		channels = append(channels, ch)
	}
	return channels
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

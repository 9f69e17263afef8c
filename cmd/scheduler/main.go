package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/agenda"
	"onderwijsloket_backend/internal/schools"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/db"
	"onderwijsloket_backend/platform/events"
	"onderwijsloket_backend/platform/logger"

	"onderwijsloket_backend/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if !cfg.IsSchedulerEnabled() {
		log.Error("REDIS_URL is required for the scheduler")
		os.Exit(1)
	}

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

	agendaModule := agenda.NewModule(pool, cfg, eventBus, log)
	schoolsModule := schools.NewModule(pool, cfg, eventBus, log)

	enqueuer, err := scheduler.NewPeriodicEnqueuer(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic enqueuer", "error", err)
		panic("failed to initialize periodic enqueuer: " + err.Error())
	}
	defer func() { _ = enqueuer.Close() }()
	go enqueuer.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, agendaModule.Service(), schoolsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
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

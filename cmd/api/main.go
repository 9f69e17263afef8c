package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/adapters/storage"
	"onderwijsloket_backend/internal/agenda"
	"onderwijsloket_backend/internal/backoffice"
	"onderwijsloket_backend/internal/chat"
	"onderwijsloket_backend/internal/chat/completion"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/internal/http/router"
	"onderwijsloket_backend/internal/notification"
	"onderwijsloket_backend/internal/profile"
	"onderwijsloket_backend/internal/schools"
	"onderwijsloket_backend/migrations"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/db"
	"onderwijsloket_backend/platform/events"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

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
		return db.RunMigrations(ctx, cfg, migrations.FS)
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

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for avatar/CV uploads. Optional: without MinIO the
	// profile module rejects uploads but everything else works.
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, "avatars", cfg.GetMinioBucketAvatars())
		ensureBucket(ctx, log, minioSvc, "documents", cfg.GetMinioBucketDocuments())
		storageSvc = minioSvc
		log.Info(
			"storage service initialized",
			"avatarsBucket", cfg.GetMinioBucketAvatars(),
			"documentsBucket", cfg.GetMinioBucketDocuments(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; file uploads disabled")
	}

	// Streaming completion client for the AI gateway
	completions := completion.NewClient(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	profileModule := profile.NewModule(pool, storageSvc, cfg, eventBus, val, log)
	chatModule := chat.NewModule(pool, completions, profileModule.Service(), eventBus, val, log)
	agendaModule := agenda.NewModule(pool, cfg, eventBus, log)
	schoolsModule := schools.NewModule(pool, cfg, eventBus, log)

	backofficeModule := backoffice.NewModule(pool, chatModule.Service(), log)
	backofficeModule.RegisterHandlers(eventBus)
	defer backofficeModule.Close()

	// Notification module subscribes to domain events (not HTTP-facing)
	if notificationModule := notification.NewModule(cfg, profileModule.Service(), log); notificationModule != nil {
		notificationModule.RegisterHandlers(eventBus)
		log.Info("advisor email notifications enabled", "inbox", cfg.GetAdvisorInbox())
	} else {
		log.Warn("advisor email notifications disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			chatModule,
			profileModule,
			agendaModule,
			schoolsModule,
			backofficeModule,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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

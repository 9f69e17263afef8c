package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

const (
	defaultAgendaRefreshInterval  = 6 * time.Hour
	defaultSchoolsRefreshInterval = 24 * time.Hour
)

// PeriodicEnqueuer puts the refresh tasks on the queue at a fixed
// cadence. One enqueue fires immediately at startup so a fresh deploy
// does not wait a full interval for its first scrape.
type PeriodicEnqueuer struct {
	client          *asynq.Client
	queue           string
	agendaInterval  time.Duration
	schoolsInterval time.Duration
	log             *logger.Logger
}

func NewPeriodicEnqueuer(cfg config.SchedulerConfig, log *logger.Logger) (*PeriodicEnqueuer, error) {
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

	agendaInterval := cfg.GetAgendaRefreshInterval()
	if agendaInterval <= 0 {
		agendaInterval = defaultAgendaRefreshInterval
	}
	schoolsInterval := cfg.GetSchoolsRefreshInterval()
	if schoolsInterval <= 0 {
		schoolsInterval = defaultSchoolsRefreshInterval
	}

	return &PeriodicEnqueuer{
		client:          asynq.NewClient(opt),
		queue:           queue,
		agendaInterval:  agendaInterval,
		schoolsInterval: schoolsInterval,
		log:             log,
	}, nil
}

func (e *PeriodicEnqueuer) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

func (e *PeriodicEnqueuer) Run(ctx context.Context) {
	if e == nil || e.client == nil {
		return
	}

	e.enqueue(ctx, NewAgendaRefreshTask())
	e.enqueue(ctx, NewSchoolsRefreshTask())

	agendaTicker := time.NewTicker(e.agendaInterval)
	defer agendaTicker.Stop()
	schoolsTicker := time.NewTicker(e.schoolsInterval)
	defer schoolsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-agendaTicker.C:
			e.enqueue(ctx, NewAgendaRefreshTask())
		case <-schoolsTicker.C:
			e.enqueue(ctx, NewSchoolsRefreshTask())
		}
	}
}

func (e *PeriodicEnqueuer) enqueue(ctx context.Context, task *asynq.Task) {
	_, err := e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue), asynq.MaxRetry(3))
	if err != nil {
		e.log.Warn("refresh task enqueue failed", "task", task.Type(), "error", err)
	}
}

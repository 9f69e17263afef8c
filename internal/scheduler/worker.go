package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// Refresher re-populates a cache from its upstream source.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Worker consumes the refresh tasks the periodic scheduler enqueues.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	agenda  Refresher
	schools Refresher
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, agenda, schools Refresher, log *logger.Logger) (*Worker, error) {
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
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		agenda:  agenda,
		schools: schools,
		log:     log,
	}

	mux.HandleFunc(TaskAgendaRefresh, w.handleAgendaRefresh)
	mux.HandleFunc(TaskSchoolsRefresh, w.handleSchoolsRefresh)

	return w, nil
}

func (w *Worker) handleAgendaRefresh(ctx context.Context, _ *asynq.Task) error {
	if w.agenda == nil {
		return nil
	}
	w.log.Info("agenda refresh task started")
	return w.agenda.Refresh(ctx)
}

func (w *Worker) handleSchoolsRefresh(ctx context.Context, _ *asynq.Task) error {
	if w.schools == nil {
		return nil
	}
	w.log.Info("schools refresh task started")
	return w.schools.Refresh(ctx)
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

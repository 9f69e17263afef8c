// Package agenda is the event agenda bounded context: Firecrawl-scraped
// activity pages cached in PostgreSQL with a daily TTL.
package agenda

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/agenda/handler"
	"onderwijsloket_backend/internal/agenda/repository"
	"onderwijsloket_backend/internal/agenda/scraper"
	"onderwijsloket_backend/internal/agenda/service"
	"onderwijsloket_backend/internal/events"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// Module wires the agenda bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the agenda module with its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AgendaConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	client := scraper.NewClient(cfg.GetFirecrawlAPIKey(), log)
	svc := service.New(repo, client, cfg, bus, log)

	return &Module{
		handler: handler.NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agenda"
}

// Service exposes the agenda service for the background scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the agenda endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/agenda", m.handler.GetAgenda)
}

var _ apphttp.Module = (*Module)(nil)

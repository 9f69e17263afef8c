// Package schools is the school directory bounded context: DUO open-data
// records for the Rotterdam region, cached per sector with a weekly TTL.
package schools

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/events"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/internal/schools/duo"
	"onderwijsloket_backend/internal/schools/handler"
	"onderwijsloket_backend/internal/schools/repository"
	"onderwijsloket_backend/internal/schools/service"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// Module wires the schools bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the schools module with its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.SchoolsConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	client := duo.NewClient(cfg.GetDUOBaseURL())
	svc := service.New(repo, client, cfg, bus, log)

	return &Module{
		handler: handler.NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "schools"
}

// Service exposes the schools service for the background scheduler.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the schools endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/schools", m.handler.GetSchools)
}

var _ apphttp.Module = (*Module)(nil)

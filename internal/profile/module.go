// Package profile is the user profile bounded context: orientation phase,
// sector preference, and avatar/CV uploads.
package profile

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/adapters/storage"
	"onderwijsloket_backend/internal/events"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/internal/profile/handler"
	"onderwijsloket_backend/internal/profile/repository"
	"onderwijsloket_backend/internal/profile/service"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

// Module wires the profile bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the profile module. store may be nil when MinIO is
// not configured.
func NewModule(
	pool *pgxpool.Pool,
	store storage.StorageService,
	cfg config.MinIOConfig,
	bus events.Bus,
	v *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, cfg, bus, log)

	return &Module{
		handler: handler.NewHandler(svc, v, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profile"
}

// Service exposes the profile service for the chat module's prompt context.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the profile endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/phases", m.handler.GetPhases)

	ctx.Protected.GET("/profile", m.handler.GetProfile)
	ctx.Protected.PUT("/profile", m.handler.UpdateProfile)
	ctx.Protected.POST("/profile/avatar", m.handler.UploadAvatar)
	ctx.Protected.POST("/profile/cv", m.handler.UploadCV)
}

var _ apphttp.Module = (*Module)(nil)

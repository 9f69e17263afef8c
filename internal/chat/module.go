// Package chat is the conversational assistant bounded context: the
// anonymous site-guide proxy, the personal orientation chat for signed-in
// users, and the persisted transcript behind the dashboard.
package chat

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/chat/handler"
	"onderwijsloket_backend/internal/chat/repository"
	"onderwijsloket_backend/internal/chat/service"
	"onderwijsloket_backend/internal/chat/session"
	"onderwijsloket_backend/internal/events"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/platform/httpkit"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

// Module wires the chat bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the chat module with its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	completions service.Streamer,
	profiles service.ProfileReader,
	bus events.Bus,
	v *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, completions, profiles, bus, log)
	sessions := session.NewStore(completions, session.DefaultTTL, log)

	return &Module{
		handler: handler.NewHandler(svc, sessions, v, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Service exposes the chat service for modules that read transcripts.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the chat endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/chat/public", ctx.ChatRateLimiter.RateLimit(), m.handler.PublicChat)
	ctx.V1.POST("/chat/widget", ctx.ChatRateLimiter.RateLimit(), m.handler.WidgetChat)
	ctx.V1.GET("/chat/widget/:sessionId", m.handler.GetWidgetSession)

	ctx.Protected.POST("/chat", m.handler.Chat)
	ctx.Protected.GET("/chat/conversation", m.handler.GetConversation)
	ctx.Protected.POST("/chat/messages", httpkit.RequireRole(httpkit.RoleAdvisor), m.handler.PostAdvisorMessage)
}

// Compile-time check that Module implements the HTTP module interface.
var _ apphttp.Module = (*Module)(nil)

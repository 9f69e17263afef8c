// Package backoffice is the advisor bounded context: the conversation
// overview, per-user transcripts and the live activity feed.
package backoffice

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/backoffice/handler"
	"onderwijsloket_backend/internal/backoffice/repository"
	"onderwijsloket_backend/internal/backoffice/service"
	"onderwijsloket_backend/internal/backoffice/sse"
	"onderwijsloket_backend/internal/events"
	apphttp "onderwijsloket_backend/internal/http"
	"onderwijsloket_backend/platform/httpkit"
	"onderwijsloket_backend/platform/logger"
)

// Module wires the backoffice bounded context.
type Module struct {
	handler *handler.Handler
	feed    *sse.Service
}

// NewModule creates the backoffice module with its dependencies.
func NewModule(pool *pgxpool.Pool, transcripts service.TranscriptReader, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, transcripts)

	return &Module{
		handler: handler.NewHandler(svc),
		feed:    sse.New(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "backoffice"
}

// RegisterRoutes mounts the advisor endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Advisor.GET("/conversations", m.handler.ListConversations)
	ctx.Advisor.GET("/conversations/:userId", m.handler.GetUserConversation)
	ctx.Advisor.GET("/stream", m.feed.Handler(advisorID))
}

// RegisterHandlers subscribes the live feed to conversation activity.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ConversationStarted{}.EventName(), events.HandlerFunc(m.onEvent))
	bus.Subscribe(events.MessageStored{}.EventName(), events.HandlerFunc(m.onEvent))
	bus.Subscribe(events.PhaseAdvanced{}.EventName(), events.HandlerFunc(m.onEvent))
}

// Close disconnects all advisor feed clients.
func (m *Module) Close() {
	m.feed.Close()
}

func (m *Module) onEvent(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ConversationStarted:
		m.feed.Broadcast(sse.Event{Type: sse.EventConversationStarted, UserID: e.UserID, Data: e})
	case events.MessageStored:
		m.feed.Broadcast(sse.Event{Type: sse.EventMessageStored, UserID: e.UserID, Data: e})
	case events.PhaseAdvanced:
		m.feed.Broadcast(sse.Event{Type: sse.EventPhaseAdvanced, UserID: e.UserID, Data: e})
	}
	return nil
}

func advisorID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, false
	}
	return identity.UserID(), true
}

var _ apphttp.Module = (*Module)(nil)

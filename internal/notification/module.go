// Package notification mails the advisor inbox about conversation
// activity. It only subscribes to domain events and registers no routes.
package notification

import (
	"context"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/internal/notification/email"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// UserNamer resolves a user's display name for notification mail.
type UserNamer interface {
	DisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}

// Module wires the notification subscribers.
type Module struct {
	sender email.Sender
	namer  UserNamer
	inbox  string
	log    *logger.Logger
}

// NewModule creates the notification module. Returns nil when email
// delivery is not configured; a nil module is safe to skip.
func NewModule(cfg config.EmailConfig, namer UserNamer, log *logger.Logger) *Module {
	if !cfg.GetEmailEnabled() || cfg.GetAdvisorInbox() == "" {
		return nil
	}
	return &Module{
		sender: email.NewSMTPSender(cfg),
		namer:  namer,
		inbox:  cfg.GetAdvisorInbox(),
		log:    log,
	}
}

// RegisterHandlers subscribes the mailers to conversation activity.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ConversationStarted{}.EventName(), events.HandlerFunc(m.onConversationStarted))
	bus.Subscribe(events.PhaseAdvanced{}.EventName(), events.HandlerFunc(m.onPhaseAdvanced))
}

func (m *Module) onConversationStarted(ctx context.Context, event events.Event) error {
	started, ok := event.(events.ConversationStarted)
	if !ok {
		return nil
	}
	name := m.displayName(ctx, started.UserID)
	return m.sender.SendConversationStarted(ctx, m.inbox, name)
}

func (m *Module) onPhaseAdvanced(ctx context.Context, event events.Event) error {
	advanced, ok := event.(events.PhaseAdvanced)
	if !ok {
		return nil
	}
	name := m.displayName(ctx, advanced.UserID)
	return m.sender.SendPhaseAdvanced(ctx, m.inbox, name, advanced.OldPhase, advanced.NewPhase)
}

func (m *Module) displayName(ctx context.Context, userID uuid.UUID) string {
	name, err := m.namer.DisplayName(ctx, userID)
	if err != nil {
		m.log.Warn("display_name_lookup_failed", "user_id", userID.String(), "error", err.Error())
		return ""
	}
	return name
}

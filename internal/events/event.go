// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"onderwijsloket_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Chat Domain Events
// =============================================================================

// ConversationStarted is published when a user's first conversation is created.
type ConversationStarted struct {
	BaseEvent
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
}

func (e ConversationStarted) EventName() string { return "chat.conversation.started" }

// MessageStored is published after a message is persisted to a conversation.
type MessageStored struct {
	BaseEvent
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         uuid.UUID `json:"userId"`
	Role           string    `json:"role"`
	Preview        string    `json:"preview"`
}

func (e MessageStored) EventName() string { return "chat.message.stored" }

// =============================================================================
// Profile Domain Events
// =============================================================================

// PhaseAdvanced is published when a user moves to a new orientation phase.
type PhaseAdvanced struct {
	BaseEvent
	UserID   uuid.UUID `json:"userId"`
	OldPhase string    `json:"oldPhase"`
	NewPhase string    `json:"newPhase"`
}

func (e PhaseAdvanced) EventName() string { return "profile.phase.advanced" }

// =============================================================================
// Content Cache Domain Events
// =============================================================================

// AgendaRefreshed is published after a scrape pass re-warms the event cache.
type AgendaRefreshed struct {
	BaseEvent
	Sources int `json:"sources"`
	Events  int `json:"events"`
}

func (e AgendaRefreshed) EventName() string { return "agenda.cache.refreshed" }

// SchoolsRefreshed is published after the DUO school directory is re-fetched.
type SchoolsRefreshed struct {
	BaseEvent
	Sectors int `json:"sectors"`
	Schools int `json:"schools"`
}

func (e SchoolsRefreshed) EventName() string { return "schools.cache.refreshed" }

// Package transport defines the HTTP request and response shapes for the
// chat module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/dialogue"
)

// ChatMessage is one conversation turn as sent by a client.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// StreamRequest is the body of both streaming chat endpoints.
type StreamRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=40,dive"`
}

// AdvisorMessageRequest inserts a message into a user's conversation on
// behalf of an advisor.
type AdvisorMessageRequest struct {
	UserID  string `json:"userId" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=4000"`
}

// WidgetMessageRequest carries one turn of the anonymous widget
// conversation. Without a session id a new session is opened.
type WidgetMessageRequest struct {
	SessionID string `json:"sessionId" validate:"omitempty,uuid"`
	Content   string `json:"content" validate:"required,max=4000"`
}

// MessageResponse is one persisted transcript entry.
type MessageResponse struct {
	ID        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Actions   []dialogue.PhaseAction `json:"actions,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ConversationResponse is the transcript returned to the dashboard. When
// the user has no conversation yet, Welcome is true and Messages holds the
// phase-framed greeting.
type ConversationResponse struct {
	ConversationID *uuid.UUID        `json:"conversationId,omitempty"`
	Title          string            `json:"title,omitempty"`
	Welcome        bool              `json:"welcome"`
	Messages       []MessageResponse `json:"messages"`
}

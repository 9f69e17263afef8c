// Package handler exposes the advisor backoffice HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onderwijsloket_backend/internal/backoffice/repository"
	chattransport "onderwijsloket_backend/internal/chat/transport"
	"onderwijsloket_backend/platform/httpkit"
)

const msgInvalidUserID = "Ongeldig gebruikers-ID"

// Service is the backoffice logic the handler depends on.
type Service interface {
	ListConversations(ctx context.Context) ([]repository.ConversationSummary, error)
	UserConversation(ctx context.Context, userID uuid.UUID) (chattransport.ConversationResponse, error)
}

// Handler handles backoffice HTTP requests.
type Handler struct {
	service Service
}

// NewHandler creates a new backoffice handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type conversationSummaryResponse struct {
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	CurrentPhase   string    `json:"currentPhase"`
	MessageCount   int       `json:"messageCount"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListConversations returns the conversation overview for advisors.
// GET /api/v1/backoffice/conversations
func (h *Handler) ListConversations(c *gin.Context) {
	summaries, err := h.service.ListConversations(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := make([]conversationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, conversationSummaryResponse{
			ConversationID: s.ConversationID,
			UserID:         s.UserID,
			Title:          s.Title,
			FirstName:      s.FirstName,
			LastName:       s.LastName,
			CurrentPhase:   s.CurrentPhase,
			MessageCount:   s.MessageCount,
			UpdatedAt:      s.UpdatedAt,
		})
	}
	httpkit.OK(c, gin.H{"conversations": resp})
}

// GetUserConversation returns one user's transcript for the advisor panel.
// GET /api/v1/backoffice/conversations/:userId
func (h *Handler) GetUserConversation(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidUserID, nil)
		return
	}

	resp, err := h.service.UserConversation(c.Request.Context(), userID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

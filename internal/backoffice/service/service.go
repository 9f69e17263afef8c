// Package service contains the advisor backoffice logic.
package service

import (
	"context"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/backoffice/repository"
	chattransport "onderwijsloket_backend/internal/chat/transport"
)

// TranscriptReader reads a user's transcript. Implemented by the chat
// service so the advisor view and the dashboard always render the same
// cleaned-up conversation.
type TranscriptReader interface {
	Conversation(ctx context.Context, userID uuid.UUID) (chattransport.ConversationResponse, error)
}

// Service implements the backoffice use cases.
type Service struct {
	repo        repository.Repository
	transcripts TranscriptReader
}

// New creates the backoffice service.
func New(repo repository.Repository, transcripts TranscriptReader) *Service {
	return &Service{
		repo:        repo,
		transcripts: transcripts,
	}
}

// ListConversations returns the advisor conversation overview.
func (s *Service) ListConversations(ctx context.Context) ([]repository.ConversationSummary, error) {
	return s.repo.ListConversations(ctx)
}

// UserConversation returns one user's transcript for the advisor panel.
func (s *Service) UserConversation(ctx context.Context, userID uuid.UUID) (chattransport.ConversationResponse, error) {
	return s.transcripts.Conversation(ctx, userID)
}

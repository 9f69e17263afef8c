// Package service contains the chat business logic: prompt assembly per
// persona, streaming orchestration, transcript persistence and retrieval.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/completion"
	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/chat/repository"
	"onderwijsloket_backend/internal/chat/transport"
	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/platform/logger"
)

const previewLen = 80

// Streamer starts a completion stream.
type Streamer interface {
	Stream(ctx context.Context, systemPrompt string, history []completion.Message) (io.ReadCloser, error)
}

// ProfileReader exposes the orientation state the prompt needs. The chat
// module depends on this narrow view instead of the profile module.
type ProfileReader interface {
	PhaseAndSector(ctx context.Context, userID uuid.UUID) (phase string, sector string, err error)
}

// Service implements the chat use cases.
type Service struct {
	repo        repository.Repository
	completions Streamer
	profiles    ProfileReader
	bus         events.Bus
	log         *logger.Logger
}

// New creates the chat service.
func New(repo repository.Repository, completions Streamer, profiles ProfileReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		completions: completions,
		profiles:    profiles,
		bus:         bus,
		log:         log,
	}
}

// PublicStream starts a site-guide completion for an anonymous visitor.
// The caller owns the returned body.
func (s *Service) PublicStream(ctx context.Context, messages []transport.ChatMessage) (io.ReadCloser, error) {
	return s.completions.Stream(ctx, dialogue.SiteGuidePrompt, toHistory(messages))
}

// PersonalStream starts a completion for a signed-in user with their phase
// context injected, and returns the action chips the handler appends as a
// trailer frame after the model output ends.
func (s *Service) PersonalStream(ctx context.Context, userID uuid.UUID, messages []transport.ChatMessage) (io.ReadCloser, []dialogue.PhaseAction, error) {
	phaseValue, sector, err := s.profiles.PhaseAndSector(ctx, userID)
	if err != nil {
		// A missing profile must not block the conversation.
		s.log.WithUserID(userID.String()).Warn("profile_lookup_failed", "error", err.Error())
		phaseValue, sector = "", ""
	}
	phase := dialogue.ParsePhase(phaseValue)

	schoolType := dialogue.ExtractSchoolType(lastUserContent(messages))
	if schoolType == dialogue.SchoolUnknown {
		schoolType = dialogue.ExtractSchoolType(sector)
	}

	prompt := dialogue.BuildSystemPrompt(dialogue.ModeAuthenticated, dialogue.PromptContext{
		Phase:      phase,
		Sector:     sector,
		SchoolType: schoolType,
	})

	body, err := s.completions.Stream(ctx, prompt, toHistory(messages))
	if err != nil {
		return nil, nil, err
	}
	return body, dialogue.ChooseActions(phase, schoolType), nil
}

// PersistExchange stores one user/assistant turn pair, creating the
// conversation lazily. Called detached from the request; failures are the
// caller's to log, the chat response is already on the wire.
func (s *Service) PersistExchange(ctx context.Context, userID uuid.UUID, userContent, assistantContent string) error {
	conv, created, err := s.repo.Ensure(ctx, userID)
	if err != nil {
		return fmt.Errorf("ensure conversation: %w", err)
	}
	if created {
		s.bus.Publish(ctx, events.ConversationStarted{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: conv.ID,
			UserID:         userID,
			Title:          conv.Title,
		})
	}

	if err := s.repo.SaveMessage(ctx, conv.ID, "user", userContent); err != nil {
		return err
	}
	s.publishStored(ctx, conv.ID, userID, "user", userContent)

	if assistantContent != "" {
		if err := s.repo.SaveMessage(ctx, conv.ID, "assistant", assistantContent); err != nil {
			return err
		}
		s.publishStored(ctx, conv.ID, userID, "assistant", assistantContent)
	}
	return nil
}

// Conversation returns the user's latest transcript. Legacy action trailers
// in stored content are stripped and surfaced as structured chips. Users
// without a conversation get a phase-framed welcome instead.
func (s *Service) Conversation(ctx context.Context, userID uuid.UUID) (transport.ConversationResponse, error) {
	conv, ok, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return transport.ConversationResponse{}, err
	}
	if !ok {
		return s.welcome(ctx, userID), nil
	}

	stored, err := s.repo.Messages(ctx, conv.ID)
	if err != nil {
		return transport.ConversationResponse{}, err
	}

	messages := make([]transport.MessageResponse, 0, len(stored))
	for _, m := range stored {
		content, actions := dialogue.StripActionsTrailer(m.Content)
		messages = append(messages, transport.MessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   content,
			Actions:   actions,
			CreatedAt: m.CreatedAt,
		})
	}

	return transport.ConversationResponse{
		ConversationID: &conv.ID,
		Title:          conv.Title,
		Messages:       messages,
	}, nil
}

// SaveAdvisorMessage inserts an advisor-authored message into a user's
// conversation, creating it when needed.
func (s *Service) SaveAdvisorMessage(ctx context.Context, targetUserID uuid.UUID, content string) error {
	conv, created, err := s.repo.Ensure(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("ensure conversation: %w", err)
	}
	if created {
		s.bus.Publish(ctx, events.ConversationStarted{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: conv.ID,
			UserID:         targetUserID,
			Title:          conv.Title,
		})
	}
	if err := s.repo.SaveMessage(ctx, conv.ID, "advisor", content); err != nil {
		return err
	}
	s.publishStored(ctx, conv.ID, targetUserID, "advisor", content)
	return nil
}

func (s *Service) welcome(ctx context.Context, userID uuid.UUID) transport.ConversationResponse {
	phaseValue, _, err := s.profiles.PhaseAndSector(ctx, userID)
	if err != nil {
		phaseValue = ""
	}
	content, actions := dialogue.WelcomeMessage(dialogue.ParsePhase(phaseValue))

	return transport.ConversationResponse{
		Welcome: true,
		Messages: []transport.MessageResponse{{
			Role:    "assistant",
			Content: content,
			Actions: actions,
		}},
	}
}

func (s *Service) publishStored(ctx context.Context, conversationID, userID uuid.UUID, role, content string) {
	s.bus.Publish(ctx, events.MessageStored{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Preview:        preview(content),
	})
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen]) + "…"
}

func toHistory(messages []transport.ChatMessage) []completion.Message {
	history := make([]completion.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, completion.Message{Role: m.Role, Content: m.Content})
	}
	return history
}

func lastUserContent(messages []transport.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

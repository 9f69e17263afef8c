// Package session implements the anonymous conversation orchestrator: it
// owns one visitor's transcript and funnel signals, drives the completion
// stream, and decides which suggestion chips accompany each reply.
package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"onderwijsloket_backend/internal/chat/completion"
	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/chat/funnel"
	"onderwijsloket_backend/internal/chat/stream"
	"onderwijsloket_backend/platform/logger"
)

// WelcomeMessage opens every anonymous conversation.
const WelcomeMessage = "Hoi! 👋 Ik ben DOORai. Waar wil je vandaag mee beginnen?"

// FallbackMessage replaces the reply when the completion stream fails.
const FallbackMessage = "Sorry, er ging iets mis. Probeer het zo nog eens 🙏"

// Streamer starts a completion stream for a conversation.
type Streamer interface {
	Stream(ctx context.Context, systemPrompt string, history []completion.Message) (io.ReadCloser, error)
}

// Message is one transcript entry, with the suggestion chips attached to
// assistant replies.
type Message struct {
	Role    string               `json:"role"`
	Content string               `json:"content"`
	Actions []funnel.QuickAction `json:"actions,omitempty"`
}

// DeltaFunc receives incremental assistant output as it streams in.
type DeltaFunc func(delta string)

// Session is the state of one anonymous conversation. All methods are
// safe for concurrent use; at most one Send is in flight at a time and a
// second Send while busy is a silent no-op.
type Session struct {
	mu       sync.Mutex
	busy     bool
	messages []Message
	signals  funnel.Signals

	completions Streamer
	log         *logger.Logger
}

// New creates a session opened with the welcome message and initial chips.
func New(completions Streamer, log *logger.Logger) *Session {
	return &Session{
		messages: []Message{{
			Role:    "assistant",
			Content: WelcomeMessage,
			Actions: funnel.InitialActions(),
		}},
		signals:     funnel.NewSignals(),
		completions: completions,
		log:         log,
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Signals returns the current funnel state.
func (s *Session) Signals() funnel.Signals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signals
}

// LatestActions returns the chips of the most recent assistant message
// that has any.
func (s *Session) LatestActions() []funnel.QuickAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == "assistant" && len(s.messages[i].Actions) > 0 {
			return append([]funnel.QuickAction(nil), s.messages[i].Actions...)
		}
	}
	return nil
}

// Send processes one user message: infer signals, stream the reply through
// onDelta, merge backend meta and attach the next action set. Blank input
// and sends while another is in flight are silent no-ops. Stream failures
// are absorbed into a fallback reply; Send itself only errors on a
// cancelled context before any work happened.
func (s *Session) Send(ctx context.Context, text string, onDelta DeltaFunc) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil
	}
	s.busy = true

	nextSignals := funnel.Infer(s.signals, text)
	s.signals = nextSignals
	s.messages = append(s.messages, Message{Role: "user", Content: text})
	history := make([]completion.Message, 0, len(s.messages))
	for _, m := range s.messages {
		history = append(history, completion.Message{Role: m.Role, Content: m.Content})
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	prompt := dialogue.BuildSystemPrompt(dialogue.ModePublic, dialogue.PromptContext{})
	body, err := s.completions.Stream(ctx, prompt, history)
	if err != nil {
		s.log.Warn("completion_failed", "error", err.Error())
		s.appendFallback()
		return nil
	}
	defer body.Close()

	s.appendAssistant()

	var content strings.Builder
	var meta *funnel.Meta

	scanner := stream.NewScanner(body)
	for {
		payload, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Warn("stream_interrupted", "error", err.Error())
			s.appendFallback()
			return nil
		}

		if meta == nil {
			meta = funnel.ParseMeta(payload)
		}
		if delta, ok := stream.Delta(payload); ok {
			content.WriteString(delta)
			s.updateAssistant(content.String())
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}

	s.mu.Lock()
	s.signals = meta.MergeInto(s.signals)
	actions := meta.Actions()
	if actions == nil {
		actions = funnel.NextActions(nextSignals)
	}
	last := len(s.messages) - 1
	s.messages[last].Actions = actions
	s.mu.Unlock()

	return nil
}

func (s *Session) appendAssistant() {
	s.mu.Lock()
	s.messages = append(s.messages, Message{Role: "assistant"})
	s.mu.Unlock()
}

func (s *Session) updateAssistant(content string) {
	s.mu.Lock()
	s.messages[len(s.messages)-1].Content = content
	s.mu.Unlock()
}

func (s *Session) appendFallback() {
	s.mu.Lock()
	s.messages = append(s.messages, Message{
		Role:    "assistant",
		Content: FallbackMessage,
		Actions: funnel.FallbackActions(),
	})
	s.mu.Unlock()
}

// Package sse provides the Server-Sent Events feed that keeps connected
// advisors up to date on conversation activity.
package sse

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onderwijsloket_backend/platform/logger"
)

// EventType classifies advisor feed events.
type EventType string

const (
	EventConversationStarted EventType = "conversation_started"
	EventMessageStored       EventType = "message_stored"
	EventPhaseAdvanced       EventType = "phase_advanced"
)

// Event is one advisor feed entry.
type Event struct {
	Type   EventType   `json:"type"`
	UserID uuid.UUID   `json:"userId,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// client is one connected advisor browser tab.
type client struct {
	advisorID uuid.UUID
	events    chan Event
}

// Service manages advisor SSE connections and broadcasting.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
}

// New creates a new advisor feed service.
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.events)
	}
}

// Broadcast sends an event to every connected advisor. Slow consumers
// drop events rather than block the publisher.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse_buffer_full", "advisor_id", c.advisorID.String())
		}
	}
}

// Handler returns the Gin handler for the advisor feed connection.
func (s *Service) Handler(getAdvisorID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		advisorID, ok := getAdvisorID(c)
		if !ok {
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			advisorID: advisorID,
			events:    make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"advisorId": advisorID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, open := <-cl.events:
				if !open {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects all advisors.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}

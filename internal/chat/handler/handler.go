// Package handler exposes the chat HTTP endpoints, including the two
// streaming completion proxies.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/chat/session"
	"onderwijsloket_backend/internal/chat/stream"
	"onderwijsloket_backend/internal/chat/transport"
	"onderwijsloket_backend/platform/httpkit"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

const (
	msgInvalidRequest   = "Ongeldig verzoek"
	msgInvalidUserID    = "Ongeldig gebruikers-ID"
	msgInvalidSessionID = "Ongeldige sessie-ID"
	msgSessionNotFound  = "Sessie niet gevonden"

	persistTimeout = 10 * time.Second
)

// Service is the chat business logic the handler depends on.
type Service interface {
	PublicStream(ctx context.Context, messages []transport.ChatMessage) (io.ReadCloser, error)
	PersonalStream(ctx context.Context, userID uuid.UUID, messages []transport.ChatMessage) (io.ReadCloser, []dialogue.PhaseAction, error)
	PersistExchange(ctx context.Context, userID uuid.UUID, userContent, assistantContent string) error
	Conversation(ctx context.Context, userID uuid.UUID) (transport.ConversationResponse, error)
	SaveAdvisorMessage(ctx context.Context, targetUserID uuid.UUID, content string) error
}

// Handler handles chat HTTP requests.
type Handler struct {
	service   Service
	sessions  *session.Store
	validator *validator.Validator
	logger    *logger.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service Service, sessions *session.Store, v *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		sessions:  sessions,
		validator: v,
		logger:    log,
	}
}

// PublicChat streams a site-guide completion for anonymous visitors.
// POST /api/v1/chat/public
func (h *Handler) PublicChat(c *gin.Context) {
	req, ok := h.bindStreamRequest(c)
	if !ok {
		return
	}

	body, err := h.service.PublicStream(c.Request.Context(), req.Messages)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	defer body.Close()

	writeSSEHeaders(c)
	h.pipe(c, body, io.Discard)
}

// Chat streams a personal completion for the signed-in user and appends
// the suggestion chips as a trailer frame after the model output ends.
// The exchange is persisted after the response is on the wire; a storage
// failure never interrupts the stream.
// POST /api/v1/chat
func (h *Handler) Chat(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	req, ok := h.bindStreamRequest(c)
	if !ok {
		return
	}

	body, actions, err := h.service.PersonalStream(c.Request.Context(), identity.UserID(), req.Messages)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	defer body.Close()

	writeSSEHeaders(c)

	var upstream bytes.Buffer
	h.pipe(c, body, &upstream)
	h.writeTrailer(c, actions)

	userContent := lastUserContent(req.Messages)
	assistantContent := assembleAssistantContent(upstream.Bytes())
	userID := identity.UserID()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := h.service.PersistExchange(ctx, userID, userContent, assistantContent); err != nil {
			h.logger.PersistenceSkipped("persist_exchange", userID.String(), err)
		}
	}()
}

// WidgetChat runs one turn of the anonymous widget conversation. Deltas
// stream out as SSE frames; the closing frame carries the session id and
// the next suggestion chips.
// POST /api/v1/chat/widget
func (h *Handler) WidgetChat(c *gin.Context) {
	var req transport.WidgetMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	var sessID uuid.UUID
	var sess *session.Session
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidSessionID, nil)
			return
		}
		if found, ok := h.sessions.Get(id); ok {
			sessID, sess = id, found
		}
	}
	if sess == nil {
		sessID, sess = h.sessions.Create()
	}

	writeSSEHeaders(c)
	flusher, _ := c.Writer.(http.Flusher)

	if err := sess.Send(c.Request.Context(), req.Content, func(delta string) {
		payload, merr := json.Marshal(gin.H{"delta": delta})
		if merr != nil {
			return
		}
		c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
		if flusher != nil {
			flusher.Flush()
		}
	}); err != nil {
		h.logger.Warn("widget_send_failed", "error", err.Error())
	}

	closing, err := json.Marshal(gin.H{
		"sessionId": sessID.String(),
		"actions":   sess.LatestActions(),
	})
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: " + string(closing) + "\n\n"))
	if flusher != nil {
		flusher.Flush()
	}
}

// GetWidgetSession returns the widget transcript for a session id.
// GET /api/v1/chat/widget/:sessionId
func (h *Handler) GetWidgetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSessionID, nil)
		return
	}

	sess, ok := h.sessions.Get(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgSessionNotFound, nil)
		return
	}
	httpkit.OK(c, gin.H{"sessionId": id.String(), "messages": sess.Messages()})
}

// GetConversation returns the signed-in user's latest transcript, or a
// phase-framed welcome when they have none yet.
// GET /api/v1/chat/conversation
func (h *Handler) GetConversation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.service.Conversation(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// PostAdvisorMessage inserts an advisor message into a user's conversation.
// POST /api/v1/chat/messages (advisor role)
func (h *Handler) PostAdvisorMessage(c *gin.Context) {
	var req transport.AdvisorMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	targetUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidUserID, nil)
		return
	}

	if err := h.service.SaveAdvisorMessage(c.Request.Context(), targetUserID, req.Content); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"status": "ok"})
}

func (h *Handler) bindStreamRequest(c *gin.Context) (transport.StreamRequest, bool) {
	var req transport.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	return req, true
}

// pipe copies the upstream stream to the client chunk by chunk, flushing
// after every write, while teeing the raw bytes into mirror.
func (h *Handler) pipe(c *gin.Context, body io.Reader, mirror io.Writer) {
	flusher, _ := c.Writer.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, werr := c.Writer.Write(chunk); werr != nil {
				return
			}
			mirror.Write(chunk)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				h.logger.Warn("stream_interrupted", "error", err.Error())
			}
			return
		}
	}
}

func (h *Handler) writeTrailer(c *gin.Context, actions []dialogue.PhaseAction) {
	payload, err := json.Marshal(gin.H{"actions": actions})
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
	if flusher, ok := c.Writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func writeSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

// assembleAssistantContent re-parses the mirrored upstream bytes and joins
// the content deltas into the full assistant reply.
func assembleAssistantContent(raw []byte) string {
	var content bytes.Buffer
	scanner := stream.NewScanner(bytes.NewReader(raw))
	for {
		payload, err := scanner.Next()
		if err != nil {
			break
		}
		if delta, ok := stream.Delta(payload); ok {
			content.WriteString(delta)
		}
	}
	return content.String()
}

func lastUserContent(messages []transport.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

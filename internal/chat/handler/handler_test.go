package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onderwijsloket_backend/internal/chat/completion"
	"onderwijsloket_backend/internal/chat/dialogue"
	"onderwijsloket_backend/internal/chat/session"
	"onderwijsloket_backend/internal/chat/transport"
	"onderwijsloket_backend/platform/httpkit"
	"onderwijsloket_backend/platform/logger"
	"onderwijsloket_backend/platform/validator"
)

func sseBody(tokens ...string) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(`data: {"choices":[{"delta":{"content":"` + tok + `"}}]}` + "\n")
	}
	b.WriteString("data: [DONE]\n")
	return b.String()
}

type fakeService struct {
	mu         sync.Mutex
	streamBody string
	actions    []dialogue.PhaseAction
	persisted  []string
}

func (f *fakeService) PublicStream(_ context.Context, _ []transport.ChatMessage) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.streamBody)), nil
}

func (f *fakeService) PersonalStream(_ context.Context, _ uuid.UUID, _ []transport.ChatMessage) (io.ReadCloser, []dialogue.PhaseAction, error) {
	return io.NopCloser(strings.NewReader(f.streamBody)), f.actions, nil
}

func (f *fakeService) PersistExchange(_ context.Context, _ uuid.UUID, userContent, assistantContent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persisted = append(f.persisted, userContent, assistantContent)
	return nil
}

func (f *fakeService) Conversation(_ context.Context, _ uuid.UUID) (transport.ConversationResponse, error) {
	return transport.ConversationResponse{Welcome: true}, nil
}

func (f *fakeService) SaveAdvisorMessage(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (f *fakeService) persistedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.persisted)
}

type fakeStreamer struct {
	body string
}

func (f *fakeStreamer) Stream(_ context.Context, _ string, _ []completion.Message) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func newTestRouter(svc *fakeService, streamer *fakeStreamer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("test")
	sessions := session.NewStore(streamer, time.Minute, log)
	h := NewHandler(svc, sessions, validator.New(), log)

	r := gin.New()
	r.POST("/chat/public", h.PublicChat)
	r.POST("/chat/widget", h.WidgetChat)
	r.GET("/chat/widget/:sessionId", h.GetWidgetSession)
	r.POST("/chat", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextRolesKey, []string{})
	}, h.Chat)
	return r
}

func TestPublicChatPipesUpstreamVerbatim(t *testing.T) {
	svc := &fakeService{streamBody: sseBody("Hoi", " daar")}
	r := newTestRouter(svc, &fakeStreamer{})

	req := httptest.NewRequest(http.MethodPost, "/chat/public", strings.NewReader(`{"messages":[{"role":"user","content":"Hallo"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != svc.streamBody {
		t.Errorf("body not piped verbatim:\n%s", rec.Body.String())
	}
}

func TestChatAppendsActionsTrailerAndPersists(t *testing.T) {
	svc := &fakeService{
		streamBody: sseBody("Welkom", " terug"),
		actions:    []dialogue.PhaseAction{{Label: "Routes bekijken", Value: "routes"}},
	}
	r := newTestRouter(svc, &fakeStreamer{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[{"role":"user","content":"Hallo"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, svc.streamBody) {
		t.Errorf("upstream bytes should come first:\n%s", body)
	}
	trailer := strings.TrimPrefix(body, svc.streamBody)
	if !strings.Contains(trailer, `"actions"`) || !strings.Contains(trailer, "Routes bekijken") {
		t.Errorf("missing actions trailer: %q", trailer)
	}

	deadline := time.Now().Add(time.Second)
	for svc.persistedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.persisted) != 2 || svc.persisted[0] != "Hallo" || svc.persisted[1] != "Welkom terug" {
		t.Errorf("persisted = %v", svc.persisted)
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	r := newTestRouter(&fakeService{}, &fakeStreamer{})

	req := httptest.NewRequest(http.MethodPost, "/chat/public", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWidgetChatStreamsAndKeepsSession(t *testing.T) {
	streamer := &fakeStreamer{body: sseBody("Leuk", " dat je er bent")}
	r := newTestRouter(&fakeService{}, streamer)

	req := httptest.NewRequest(http.MethodPost, "/chat/widget", strings.NewReader(`{"content":"Ik wil leraar worden"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"delta":"Leuk"`) {
		t.Errorf("missing delta frames:\n%s", body)
	}

	frames := strings.Split(strings.TrimSpace(body), "\n\n")
	var closing struct {
		SessionID string `json:"sessionId"`
		Actions   []struct {
			Label string `json:"label"`
		} `json:"actions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(frames[len(frames)-1], "data: ")), &closing); err != nil {
		t.Fatalf("closing frame: %v", err)
	}
	if closing.SessionID == "" || len(closing.Actions) == 0 {
		t.Fatalf("closing frame incomplete: %+v", closing)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/chat/widget/"+closing.SessionID, nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("transcript status = %d", getRec.Code)
	}
	var transcript struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(getRec.Body.Bytes(), &transcript); err != nil {
		t.Fatal(err)
	}
	if len(transcript.Messages) != 3 {
		t.Fatalf("transcript length = %d, want welcome + user + assistant", len(transcript.Messages))
	}
	if transcript.Messages[2].Content != "Leuk dat je er bent" {
		t.Errorf("assistant content = %q", transcript.Messages[2].Content)
	}
}

func TestWidgetTranscriptUnknownSession(t *testing.T) {
	r := newTestRouter(&fakeService{}, &fakeStreamer{})

	req := httptest.NewRequest(http.MethodGet, "/chat/widget/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

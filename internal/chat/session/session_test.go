package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"onderwijsloket_backend/internal/chat/completion"
	"onderwijsloket_backend/internal/chat/funnel"
	"onderwijsloket_backend/platform/logger"
)

// fakeStreamer returns a canned body per call, or an error.
type fakeStreamer struct {
	mu      sync.Mutex
	bodies  []string
	err     error
	calls   int
	prompts []string
	history [][]completion.Message
	block   chan struct{}
}

func (f *fakeStreamer) Stream(_ context.Context, prompt string, history []completion.Message) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.history = append(f.history, history)
	body := ""
	if len(f.bodies) > 0 {
		body = f.bodies[0]
		f.bodies = f.bodies[1:]
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func tokenBody(tokens ...string) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(`data: {"choices":[{"delta":{"content":"` + tok + `"}}]}` + "\n")
	}
	b.WriteString("data: [DONE]\n")
	return b.String()
}

func TestNewSessionOpensWithWelcome(t *testing.T) {
	s := New(&fakeStreamer{}, logger.New("test"))

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != "assistant" || msgs[0].Content != WelcomeMessage {
		t.Fatalf("messages = %v", msgs)
	}
	if len(msgs[0].Actions) != 3 {
		t.Errorf("initial actions = %v", msgs[0].Actions)
	}
}

func TestSendStreamsReplyAndComputesActions(t *testing.T) {
	streamer := &fakeStreamer{bodies: []string{tokenBody("Leuk ", "dat je er bent")}}
	s := New(streamer, logger.New("test"))

	var deltas []string
	err := s.Send(context.Background(), "ik wil iets met het basisonderwijs", func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(deltas) != 2 {
		t.Errorf("deltas = %v", deltas)
	}

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != "assistant" || last.Content != "Leuk dat je er bent" {
		t.Errorf("last message = %+v", last)
	}

	// sector extracted, study level still missing: actions come from the
	// local policy with the study-level gap question first
	if s.Signals().Sector != funnel.SectorPO {
		t.Errorf("sector = %q", s.Signals().Sector)
	}
	if len(last.Actions) != 3 || last.Actions[0].Label != "Wat betekent mijn opleidingsniveau?" {
		t.Errorf("actions = %v", last.Actions)
	}

	// history sent upstream includes welcome + user message
	if len(streamer.history[0]) != 2 {
		t.Errorf("history = %v", streamer.history[0])
	}
}

func TestSendBlankIsNoOp(t *testing.T) {
	streamer := &fakeStreamer{}
	s := New(streamer, logger.New("test"))

	if err := s.Send(context.Background(), "   ", nil); err != nil {
		t.Fatal(err)
	}
	if streamer.calls != 0 {
		t.Error("blank send should not reach the gateway")
	}
	if len(s.Messages()) != 1 {
		t.Error("blank send should not touch the transcript")
	}
}

func TestSendWhileBusyIsNoOp(t *testing.T) {
	block := make(chan struct{})
	streamer := &fakeStreamer{bodies: []string{tokenBody("x")}, block: block}
	s := New(streamer, logger.New("test"))

	done := make(chan struct{})
	go func() {
		s.Send(context.Background(), "eerste", nil)
		close(done)
	}()

	// Wait until the first send holds the busy flag
	for {
		s.mu.Lock()
		busy := s.busy
		s.mu.Unlock()
		if busy {
			break
		}
	}

	if err := s.Send(context.Background(), "tweede", nil); err != nil {
		t.Fatal(err)
	}

	close(block)
	<-done

	for _, m := range s.Messages() {
		if m.Content == "tweede" {
			t.Fatal("second send should have been dropped")
		}
	}
	if streamer.calls != 1 {
		t.Errorf("calls = %d, want 1", streamer.calls)
	}

	// busy flag cleared: a new send goes through
	if err := s.Send(context.Background(), "derde", nil); err != nil {
		t.Fatal(err)
	}
	if streamer.calls != 2 {
		t.Errorf("calls after third send = %d, want 2", streamer.calls)
	}
}

func TestSendFallbackOnStreamError(t *testing.T) {
	streamer := &fakeStreamer{err: errors.New("gateway down")}
	s := New(streamer, logger.New("test"))

	if err := s.Send(context.Background(), "hallo", nil); err != nil {
		t.Fatal(err)
	}

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Content != FallbackMessage {
		t.Errorf("last = %+v", last)
	}
	if len(last.Actions) != 3 || last.Actions[2].Href != funnel.RouteAuth {
		t.Errorf("fallback actions = %v", last.Actions)
	}

	// not stuck busy after a failure
	streamer.err = nil
	streamer.bodies = []string{tokenBody("ok")}
	if err := s.Send(context.Background(), "nogmaals", nil); err != nil {
		t.Fatal(err)
	}
	if streamer.calls != 2 {
		t.Error("session stuck busy after failure")
	}
}

func TestSendMetaOverridesActionsAndSignals(t *testing.T) {
	body := `data: {"meta":{"signals":{"sector":"VO","studyLevel":"WO"},"followUps":[{"label":"Bekijk events","href":"/events"}]}}` + "\n" +
		tokenBody("prima")
	streamer := &fakeStreamer{bodies: []string{body}}
	s := New(streamer, logger.New("test"))

	if err := s.Send(context.Background(), "vertel eens", nil); err != nil {
		t.Fatal(err)
	}

	sig := s.Signals()
	if sig.Sector != funnel.SectorVO || sig.StudyLevel != funnel.StudyWO || !sig.HasEnoughContext {
		t.Errorf("signals = %+v", sig)
	}

	actions := s.LatestActions()
	if len(actions) != 1 || actions[0].Href != "/events" {
		t.Errorf("actions = %v", actions)
	}
}

func TestSendMetaInvalidActionsFallBackToComputed(t *testing.T) {
	body := `data: {"meta":{"followUps":[{"label":"kapot","href":"javascript:x"}]}}` + "\n" +
		tokenBody("tekst")
	streamer := &fakeStreamer{bodies: []string{body}}
	s := New(streamer, logger.New("test"))

	if err := s.Send(context.Background(), "hoi", nil); err != nil {
		t.Fatal(err)
	}

	actions := s.LatestActions()
	if len(actions) != 3 || actions[0].Label != "Help me kiezen tussen PO, VO en MBO" {
		t.Errorf("expected computed actions, got %v", actions)
	}
}

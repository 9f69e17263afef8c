package stream

import (
	"io"
	"strings"
	"testing"
)

// chunkReader yields one predefined chunk per Read call to simulate
// network framing that splits payloads at arbitrary points.
type chunkReader struct {
	chunks []string
	pos    int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.chunks) {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[r.pos])
	r.pos++
	return n, nil
}

func collect(t *testing.T, s *Scanner) []string {
	t.Helper()
	var frames []string
	for {
		payload, err := s.Next()
		if err == io.EOF {
			return frames
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		frames = append(frames, string(payload))
	}
}

func TestScannerBasicFrames(t *testing.T) {
	body := "data: {\"a\":1}\n" +
		": comment line\n" +
		"\n" +
		"event: something\n" +
		"data: {\"b\":2}\r\n" +
		"data: [DONE]\n"

	s := NewScanner(strings.NewReader(body))
	frames := collect(t, s)

	if len(frames) != 2 || frames[0] != `{"a":1}` || frames[1] != `{"b":2}` {
		t.Fatalf("frames = %v", frames)
	}
	if !s.ModelDone() {
		t.Error("ModelDone should be true after [DONE]")
	}
}

func TestScannerFrameSplitAcrossChunks(t *testing.T) {
	r := &chunkReader{chunks: []string{
		"data: {\"choices\":[{\"delta\":{\"con",
		"tent\":\"hoi\"}}]}\n",
	}}

	frames := collect(t, NewScanner(r))
	if len(frames) != 1 {
		t.Fatalf("frames = %v", frames)
	}
	delta, ok := Delta([]byte(frames[0]))
	if !ok || delta != "hoi" {
		t.Errorf("delta = %q, %v", delta, ok)
	}
}

func TestScannerPushbackRetriedAfterNextRead(t *testing.T) {
	// The payload contains a literal newline, so the first line alone is
	// invalid JSON and must be retried once the rest arrives.
	r := &chunkReader{chunks: []string{
		"data: {\"x\":\"a\nb\"}\n",
	}}
	// First chunk delivers everything, but the scanner sees the newline
	// inside the payload as a line break. The reconstructed line is only
	// dropped at EOF; the remainder line is skipped as non-data.
	frames := collect(t, NewScanner(r))
	if len(frames) != 0 {
		t.Fatalf("frames = %v", frames)
	}
}

func TestScannerDropsUnparseableFragmentAtEOF(t *testing.T) {
	body := "data: {\"ok\":true}\ndata: {\"broken\": \n"
	frames := collect(t, NewScanner(strings.NewReader(body)))
	if len(frames) != 1 || frames[0] != `{"ok":true}` {
		t.Fatalf("frames = %v", frames)
	}
}

func TestScannerTrailerAfterDone(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n" +
		"data: [DONE]\n" +
		"data: {\"actions\":[{\"label\":\"Vacatures\",\"value\":\"v\"}]}\n"

	s := NewScanner(strings.NewReader(body))

	first, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if s.ModelDone() {
		t.Error("ModelDone before [DONE]")
	}
	if delta, ok := Delta(first); !ok || delta != "x" {
		t.Errorf("delta = %q", delta)
	}

	trailer, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !s.ModelDone() {
		t.Error("ModelDone should be set when the trailer arrives")
	}
	if string(trailer) != `{"actions":[{"label":"Vacatures","value":"v"}]}` {
		t.Errorf("trailer = %s", trailer)
	}

	if _, err := s.Next(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestDeltaAbsent(t *testing.T) {
	if _, ok := Delta([]byte(`{"meta":{"intent":"route"}}`)); ok {
		t.Error("meta frame should carry no delta")
	}
	if _, ok := Delta([]byte(`{"choices":[]}`)); ok {
		t.Error("empty choices should carry no delta")
	}
}

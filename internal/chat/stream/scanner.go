// Package stream parses the SSE-style framing used by the completion
// gateway: "data: " prefixed JSON payloads separated by newlines, with
// "[DONE]" marking the end of model output.
package stream

import (
	"bytes"
	"encoding/json"
	"io"
)

const dataPrefix = "data: "

// Scanner incrementally extracts JSON frames from a chunked stream body.
//
// A line whose payload is not yet valid JSON is pushed back onto the
// buffer and retried only after more data arrives; if the stream ends
// first, the unparseable fragment is dropped silently.
type Scanner struct {
	reader    io.Reader
	buf       []byte
	chunk     []byte
	modelDone bool
	eof       bool
}

// NewScanner wraps a stream body.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: r,
		chunk:  make([]byte, 4096),
	}
}

// ModelDone reports whether the "[DONE]" marker has been seen. Frames
// after the marker are application trailers, not model output.
func (s *Scanner) ModelDone() bool {
	return s.modelDone
}

// Next returns the next JSON frame payload. It returns io.EOF when the
// stream is exhausted; any buffered fragment that never became valid JSON
// is discarded at that point.
func (s *Scanner) Next() ([]byte, error) {
	for {
		if payload, ok := s.scanBuffered(); ok {
			return payload, nil
		}

		if s.eof {
			return nil, io.EOF
		}

		n, err := s.reader.Read(s.chunk)
		if n > 0 {
			s.buf = append(s.buf, s.chunk[:n]...)
		}
		if err == io.EOF {
			s.eof = true
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

// scanBuffered consumes complete lines from the buffer until it produces
// a frame or needs more data.
func (s *Scanner) scanBuffered() ([]byte, bool) {
	for {
		idx := bytes.IndexByte(s.buf, '\n')
		if idx == -1 {
			return nil, false
		}

		line := s.buf[:idx]
		s.buf = s.buf[idx+1:]

		line = bytes.TrimSuffix(line, []byte("\r"))
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == ':' {
			continue
		}
		if !bytes.HasPrefix(line, []byte(dataPrefix)) {
			continue
		}

		payload := bytes.TrimSpace(line[len(dataPrefix):])
		if string(payload) == "[DONE]" {
			s.modelDone = true
			continue
		}

		if json.Valid(payload) {
			return payload, true
		}

		// Possibly a frame split across chunks. Re-prepend and wait for
		// the next read; at EOF the fragment is dropped.
		if s.eof {
			continue
		}
		rest := s.buf
		s.buf = make([]byte, 0, len(line)+1+len(rest))
		s.buf = append(s.buf, line...)
		s.buf = append(s.buf, '\n')
		s.buf = append(s.buf, rest...)
		return nil, false
	}
}

// Delta extracts the token text from a model output frame
// (choices[0].delta.content). Returns false when the frame carries none.
func Delta(payload []byte) (string, bool) {
	var frame struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return "", false
	}
	if len(frame.Choices) == 0 || frame.Choices[0].Delta.Content == "" {
		return "", false
	}
	return frame.Choices[0].Delta.Content, true
}

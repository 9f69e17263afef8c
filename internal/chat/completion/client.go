// Package completion provides the client for the OpenAI-compatible
// streaming completion gateway.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"onderwijsloket_backend/platform/apperr"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// User-facing error messages, surfaced verbatim by the HTTP layer.
const (
	ErrMsgRateLimited   = "Te veel verzoeken, probeer het later opnieuw."
	ErrMsgQuotaExceeded = "AI-credits zijn op, neem contact op met de beheerder."
	ErrMsgGateway       = "Er ging iets mis met de AI, probeer het opnieuw."
)

// Message is one turn in the conversation sent to the gateway.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client streams chat completions from the AI gateway.
type Client struct {
	httpClient *http.Client
	cfg        config.AIGatewayConfig
	log        *logger.Logger
}

// NewClient creates a completion client. The HTTP client timeout covers
// the whole stream, so it uses the configured stream timeout rather than
// a request timeout.
func NewClient(cfg config.AIGatewayConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetAIStreamTimeout()},
		cfg:        cfg,
		log:        log,
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Stream starts a streaming completion with the given system prompt and
// conversation history. The caller owns the returned body and must close
// it. Gateway failures are mapped to typed errors carrying the Dutch
// user-facing message.
func (c *Client) Stream(ctx context.Context, systemPrompt string, history []Message) (io.ReadCloser, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	payload, err := json.Marshal(completionRequest{
		Model:    c.cfg.GetAIModel(),
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, ErrMsgGateway, err)
	}

	url := strings.TrimRight(c.cfg.GetAIGatewayURL(), "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, ErrMsgGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GetAIGatewayKey())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.GatewayError(0, err)
		return nil, apperr.Wrap(apperr.KindInternal, ErrMsgGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		err := fmt.Errorf("gateway status %d: %s", resp.StatusCode, body)
		c.log.GatewayError(resp.StatusCode, err)

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, apperr.RateLimited(ErrMsgRateLimited)
		case http.StatusPaymentRequired:
			return nil, apperr.QuotaExceeded(ErrMsgQuotaExceeded)
		default:
			return nil, apperr.Wrap(apperr.KindInternal, ErrMsgGateway, err)
		}
	}

	return resp.Body, nil
}

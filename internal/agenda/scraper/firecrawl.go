// Package scraper fetches the agenda source pages through Firecrawl and
// extracts event listings from the returned markdown.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"onderwijsloket_backend/platform/logger"
)

// DefaultBaseURL is the Firecrawl API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev"

// Client calls the Firecrawl scrape API.
type Client struct {
	// BaseURL can be overridden for tests.
	BaseURL string

	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a Firecrawl client.
func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	WaitFor         int      `json:"waitFor"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// Scrape fetches a page and returns its main content as markdown. The
// 2 second waitFor gives client-rendered agenda pages time to paint.
func (c *Client) Scrape(ctx context.Context, pageURL string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         2000,
	})
	if err != nil {
		return "", fmt.Errorf("marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("scrape %s: status %d: %s", pageURL, resp.StatusCode, body)
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode scrape response: %w", err)
	}
	if !result.Success || result.Data.Markdown == "" {
		return "", fmt.Errorf("scrape %s: no markdown returned", pageURL)
	}
	return result.Data.Markdown, nil
}

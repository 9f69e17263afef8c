// Package transport defines the HTTP response shapes for the agenda module.
package transport

import (
	"time"

	"onderwijsloket_backend/internal/agenda/scraper"
)

// SourceResponse is one scraped source with its events.
type SourceResponse struct {
	SourceName string          `json:"sourceName"`
	SourceURL  string          `json:"sourceUrl"`
	ScrapedAt  time.Time       `json:"scrapedAt"`
	Events     []scraper.Event `json:"events"`
}

// AgendaResponse is the full agenda: the flattened event list plus the
// per-source breakdown.
type AgendaResponse struct {
	Cached  bool             `json:"cached"`
	Events  []scraper.Event  `json:"events"`
	Sources []SourceResponse `json:"sources"`
}

// Package repository provides the PostgreSQL cache for scraped agenda
// sources.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/agenda/scraper"
)

// CachedSource is one scraped source with its extracted events.
type CachedSource struct {
	ID         uuid.UUID
	SourceURL  string
	SourceName string
	Events     []scraper.Event
	ScrapedAt  time.Time
	ExpiresAt  time.Time
}

// Repository defines the agenda cache operations.
type Repository interface {
	// Fresh returns all cached sources whose TTL has not expired.
	Fresh(ctx context.Context) ([]CachedSource, error)
	// Upsert replaces a source's cache entry and stamps a new expiry.
	Upsert(ctx context.Context, sourceURL, sourceName string, events []scraper.Event, ttl time.Duration) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agenda repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Fresh returns the unexpired cache entries.
func (r *Repo) Fresh(ctx context.Context) ([]CachedSource, error) {
	query := `
		SELECT id, source_url, source_name, events_data, scraped_at, expires_at
		FROM scraped_events
		WHERE expires_at > now()
		ORDER BY source_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fresh sources: %w", err)
	}
	defer rows.Close()

	var sources []CachedSource
	for rows.Next() {
		var s CachedSource
		var eventsData []byte
		if err := rows.Scan(&s.ID, &s.SourceURL, &s.SourceName, &eventsData, &s.ScrapedAt, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		if err := json.Unmarshal(eventsData, &s.Events); err != nil {
			return nil, fmt.Errorf("decode events for %s: %w", s.SourceURL, err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// Upsert stores a source's events keyed by source_url.
func (r *Repo) Upsert(ctx context.Context, sourceURL, sourceName string, events []scraper.Event, ttl time.Duration) error {
	eventsData, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	query := `
		INSERT INTO scraped_events (source_url, source_name, events_data, scraped_at, expires_at)
		VALUES ($1, $2, $3, now(), now() + $4)
		ON CONFLICT (source_url) DO UPDATE SET
			source_name = EXCLUDED.source_name,
			events_data = EXCLUDED.events_data,
			scraped_at = EXCLUDED.scraped_at,
			expires_at = EXCLUDED.expires_at`

	if _, err := r.pool.Exec(ctx, query, sourceURL, sourceName, eventsData, ttl); err != nil {
		return fmt.Errorf("upsert source %s: %w", sourceURL, err)
	}
	return nil
}

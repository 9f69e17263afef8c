// Package repository provides the PostgreSQL cache for the DUO school
// directory.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"onderwijsloket_backend/internal/schools/duo"
)

// SectorCache is the cached school list of one sector.
type SectorCache struct {
	ID        uuid.UUID
	Sector    string
	Schools   []duo.Record
	ScrapedAt time.Time
	ExpiresAt time.Time
}

// Repository defines the school cache operations.
type Repository interface {
	// Fresh returns the unexpired sector caches.
	Fresh(ctx context.Context) ([]SectorCache, error)
	// Replace swaps the whole cache for a new set of sector entries in
	// one transaction.
	Replace(ctx context.Context, entries map[string][]duo.Record, ttl time.Duration) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new schools repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Fresh returns the unexpired sector caches.
func (r *Repo) Fresh(ctx context.Context) ([]SectorCache, error) {
	query := `
		SELECT id, sector, schools_data, scraped_at, expires_at
		FROM duo_schools
		WHERE expires_at > now()
		ORDER BY sector ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sector caches: %w", err)
	}
	defer rows.Close()

	var caches []SectorCache
	for rows.Next() {
		var c SectorCache
		var schoolsData []byte
		if err := rows.Scan(&c.ID, &c.Sector, &schoolsData, &c.ScrapedAt, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan sector cache: %w", err)
		}
		if err := json.Unmarshal(schoolsData, &c.Schools); err != nil {
			return nil, fmt.Errorf("decode schools for %s: %w", c.Sector, err)
		}
		caches = append(caches, c)
	}
	return caches, rows.Err()
}

// Replace swaps the cache atomically so readers never see a half-filled
// directory.
func (r *Repo) Replace(ctx context.Context, entries map[string][]duo.Record, ttl time.Duration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM duo_schools`); err != nil {
		return fmt.Errorf("clear school cache: %w", err)
	}

	insert := `
		INSERT INTO duo_schools (sector, schools_data, scraped_at, expires_at)
		VALUES ($1, $2, now(), now() + $3)`

	batch := &pgx.Batch{}
	for sector, records := range entries {
		schoolsData, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode schools for %s: %w", sector, err)
		}
		batch.Queue(insert, sector, schoolsData, ttl)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sector caches: %w", err)
	}
	return tx.Commit(ctx)
}

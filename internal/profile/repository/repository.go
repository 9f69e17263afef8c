// Package repository provides PostgreSQL persistence for user profiles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is a user's orientation profile.
type Profile struct {
	UserID          uuid.UUID
	FirstName       string
	LastName        string
	CurrentPhase    string
	PreferredSector string
	AvatarKey       string
	CVKey           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository defines persistence operations for profiles.
type Repository interface {
	// Get returns a user's profile, or ok=false when none exists yet.
	Get(ctx context.Context, userID uuid.UUID) (Profile, bool, error)
	// Upsert creates or updates a profile.
	Upsert(ctx context.Context, p Profile) (Profile, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new profile repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Get returns a user's profile.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (Profile, bool, error) {
	query := `
		SELECT user_id, first_name, last_name, current_phase, preferred_sector,
		       avatar_key, cv_key, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	var p Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.CurrentPhase, &p.PreferredSector,
		&p.AvatarKey, &p.CVKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, false, nil
		}
		return Profile{}, false, fmt.Errorf("get profile: %w", err)
	}
	return p, true, nil
}

// Upsert creates or updates a profile keyed by user_id.
func (r *Repo) Upsert(ctx context.Context, p Profile) (Profile, error) {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, current_phase, preferred_sector, avatar_key, cv_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			current_phase = EXCLUDED.current_phase,
			preferred_sector = EXCLUDED.preferred_sector,
			avatar_key = EXCLUDED.avatar_key,
			cv_key = EXCLUDED.cv_key,
			updated_at = now()
		RETURNING user_id, first_name, last_name, current_phase, preferred_sector,
		          avatar_key, cv_key, created_at, updated_at`

	var saved Profile
	err := r.pool.QueryRow(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.CurrentPhase, p.PreferredSector, p.AvatarKey, p.CVKey,
	).Scan(
		&saved.UserID, &saved.FirstName, &saved.LastName, &saved.CurrentPhase, &saved.PreferredSector,
		&saved.AvatarKey, &saved.CVKey, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

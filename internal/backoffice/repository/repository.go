// Package repository provides the advisor read model over conversations
// and profiles.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationSummary is one row in the advisor's conversation overview.
type ConversationSummary struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Title          string
	FirstName      string
	LastName       string
	CurrentPhase   string
	MessageCount   int
	UpdatedAt      time.Time
}

// Repository defines the backoffice read operations.
type Repository interface {
	// ListConversations returns all conversations with profile context,
	// most recently active first.
	ListConversations(ctx context.Context) ([]ConversationSummary, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new backoffice repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// ListConversations returns the advisor overview.
func (r *Repo) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	query := `
		SELECT c.id, c.user_id, c.title,
		       COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
		       COALESCE(p.current_phase, 'interesseren'),
		       (SELECT count(*) FROM messages m WHERE m.conversation_id = c.id),
		       c.updated_at
		FROM conversations c
		LEFT JOIN profiles p ON p.user_id = c.user_id
		ORDER BY c.updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(
			&s.ConversationID, &s.UserID, &s.Title,
			&s.FirstName, &s.LastName, &s.CurrentPhase,
			&s.MessageCount, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

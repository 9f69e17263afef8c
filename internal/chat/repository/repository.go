// Package repository provides PostgreSQL persistence for conversations
// and messages.
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

// DefaultTitle is used for lazily created conversations.
const DefaultTitle = "DOORai gesprek"

// Conversation is one user's chat thread.
type Conversation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one persisted transcript entry.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Role           string
	Content        string
	CreatedAt      time.Time
}

// Repository defines persistence operations for the chat module.
type Repository interface {
	// LatestByUser returns the user's most recently updated conversation,
	// or ok=false when they have none.
	LatestByUser(ctx context.Context, userID uuid.UUID) (Conversation, bool, error)
	// Ensure returns the user's latest conversation, creating one when
	// none exists. created reports whether a new conversation was made.
	Ensure(ctx context.Context, userID uuid.UUID) (conv Conversation, created bool, err error)
	// Messages returns a conversation's messages in chronological order.
	Messages(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
	// SaveMessage inserts a message and touches the conversation's
	// updated_at timestamp.
	SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chat repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// LatestByUser returns the most recently updated conversation for a user.
func (r *Repo) LatestByUser(ctx context.Context, userID uuid.UUID) (Conversation, bool, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`

	var conv Conversation
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, false, nil
		}
		return Conversation{}, false, fmt.Errorf("latest conversation: %w", err)
	}
	return conv, true, nil
}

// Ensure returns the latest conversation, creating one lazily.
func (r *Repo) Ensure(ctx context.Context, userID uuid.UUID) (Conversation, bool, error) {
	conv, ok, err := r.LatestByUser(ctx, userID)
	if err != nil {
		return Conversation{}, false, err
	}
	if ok {
		return conv, false, nil
	}

	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query, userID, DefaultTitle).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return Conversation{}, false, fmt.Errorf("create conversation: %w", err)
	}
	return conv, true, nil
}

// Messages returns all messages of a conversation, oldest first.
func (r *Repo) Messages(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// SaveMessage inserts a message and touches the conversation timestamp.
func (r *Repo) SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) error {
	query := `INSERT INTO messages (conversation_id, role, content) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, conversationID, role, content); err != nil {
		return fmt.Errorf("save message: %w", err)
	}

	touch := `UPDATE conversations SET updated_at = now() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, touch, conversationID); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

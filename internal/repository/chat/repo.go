// Package chat persists conversations and their messages.
package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusqa/campusqa/internal/domain"
)

// querier is the consumer interface over the pgx pool.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements usecase/history.ChatRepository.
type Repo struct {
	q querier
}

// New creates a chat repository backed by a pgx pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{q: pool}
}

// ListChats returns a user's chats, most recent first.
func (r *Repo) ListChats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, title, created_at
		FROM chats WHERE user_id = $1
		ORDER BY created_at DESC`,
		pgUUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []domain.Chat{}
	for rows.Next() {
		var (
			id, uid pgtype.UUID
			c       domain.Chat
		)
		if err := rows.Scan(&id, &uid, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		c.ID = uuid.UUID(id.Bytes)
		c.UserID = uuid.UUID(uid.Bytes)
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}

// ListMessages returns a chat's messages in chronological order.
func (r *Repo) ListMessages(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, chat_id, role, content, created_at
		FROM messages WHERE chat_id = $1
		ORDER BY created_at`,
		pgUUID(chatID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var (
			id, cid pgtype.UUID
			m       domain.Message
		)
		if err := rows.Scan(&id, &cid, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = uuid.UUID(id.Bytes)
		m.ChatID = uuid.UUID(cid.Bytes)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// CreateChat inserts a new chat for a user and returns it.
func (r *Repo) CreateChat(ctx context.Context, userID uuid.UUID, title string) (domain.Chat, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO chats (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at`,
		pgUUID(userID), title)

	var (
		id, uid pgtype.UUID
		c       domain.Chat
	)
	if err := row.Scan(&id, &uid, &c.Title, &c.CreatedAt); err != nil {
		return domain.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	c.ID = uuid.UUID(id.Bytes)
	c.UserID = uuid.UUID(uid.Bytes)
	return c, nil
}

// AddMessage appends a message to a chat.
func (r *Repo) AddMessage(ctx context.Context, chatID uuid.UUID, role, content string) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO messages (chat_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id`,
		pgUUID(chatID), role, content)

	var id pgtype.UUID
	if err := row.Scan(&id); err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

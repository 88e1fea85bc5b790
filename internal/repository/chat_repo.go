package repository

import (
	"context"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatMessageRepository struct {
	db *pgxpool.Pool
}

func NewChatMessageRepository(db *pgxpool.Pool) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	if m.Channel == "" {
		m.Channel = "main"
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO chat_messages (user_id, message, channel, is_bot)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.UserID, m.Message, m.Channel, m.IsBot).Scan(&m.ID, &m.CreatedAt)
}

func (r *ChatMessageRepository) GetByID(ctx context.Context, messageID int64) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, message, channel, is_bot, created_at
		FROM chat_messages
		WHERE id = $1
	`, messageID).Scan(&m.ID, &m.UserID, &m.Message, &m.Channel, &m.IsBot, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *ChatMessageRepository) MessagesByUser(ctx context.Context, userID int64) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, channel, is_bot, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatMessages(rows)
}

func (r *ChatMessageRepository) RecentMessagesByChannel(ctx context.Context, channel string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, channel, is_bot, created_at
		FROM chat_messages
		WHERE channel = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, channel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChatMessages(rows)
}

// Delete removes a message, for moderation. Returns false for a missing id.
func (r *ChatMessageRepository) Delete(ctx context.Context, messageID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, messageID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanChatMessages(rows pgx.Rows) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.Channel, &m.IsBot, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

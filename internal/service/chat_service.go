package service

import (
	"context"
	"errors"
	"strings"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmptyMessage = errors.New("message is empty")

const maxMessageLength = 500

type ChatService struct {
	messages *repository.ChatMessageRepository
}

func NewChatService(db *pgxpool.Pool) *ChatService {
	return &ChatService{messages: repository.NewChatMessageRepository(db)}
}

func (s *ChatService) PostMessage(ctx context.Context, userID int64, channel, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLength {
		text = text[:maxMessageLength]
	}
	m := &domain.ChatMessage{
		UserID:  userID,
		Message: text,
		Channel: channel,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ChatService) GetMessage(ctx context.Context, messageID int64) (*domain.ChatMessage, error) {
	return s.messages.GetByID(ctx, messageID)
}

func (s *ChatService) GetMessagesByUser(ctx context.Context, userID int64) ([]domain.ChatMessage, error) {
	return s.messages.MessagesByUser(ctx, userID)
}

func (s *ChatService) GetRecentMessages(ctx context.Context, channel string, limit int) ([]domain.ChatMessage, error) {
	if channel == "" {
		channel = "main"
	}
	return s.messages.RecentMessagesByChannel(ctx, channel, limit)
}

func (s *ChatService) DeleteMessage(ctx context.Context, messageID int64) (bool, error) {
	return s.messages.Delete(ctx, messageID)
}

// Package history serves chat-history reads and records question/answer
// exchanges for signed-in users.
package history

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/campusqa/campusqa/internal/domain"
)

// titleMaxRunes caps chat titles derived from the opening question.
const titleMaxRunes = 50

// Service exposes chat history and implements usecase/ask.Recorder.
type Service struct {
	chats ChatRepository
}

// New creates the history service.
func New(chats ChatRepository) *Service {
	return &Service{chats: chats}
}

// Chats lists a user's conversations, most recent first.
func (s *Service) Chats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error) {
	return s.chats.ListChats(ctx, userID)
}

// Messages lists a conversation's messages in chronological order.
func (s *Service) Messages(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	return s.chats.ListMessages(ctx, chatID)
}

// Record appends a question/answer pair to a chat, creating the chat
// first when chatID is zero. The new chat takes its title from the
// question. Returns the chat the pair landed in.
func (s *Service) Record(ctx context.Context, userID, chatID uuid.UUID, question, answer string) (uuid.UUID, error) {
	if chatID == uuid.Nil {
		c, err := s.chats.CreateChat(ctx, userID, chatTitle(question))
		if err != nil {
			return uuid.Nil, fmt.Errorf("create chat: %w", err)
		}
		chatID = c.ID
	}

	if err := s.chats.AddMessage(ctx, chatID, domain.RoleUser, question); err != nil {
		return uuid.Nil, fmt.Errorf("record question: %w", err)
	}
	if err := s.chats.AddMessage(ctx, chatID, domain.RoleAssistant, answer); err != nil {
		return uuid.Nil, fmt.Errorf("record answer: %w", err)
	}
	return chatID, nil
}

func chatTitle(question string) string {
	if utf8.RuneCountInString(question) <= titleMaxRunes {
		return question
	}
	runes := []rune(question)
	return string(runes[:titleMaxRunes]) + "…"
}

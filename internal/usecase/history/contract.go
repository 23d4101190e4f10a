package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusqa/campusqa/internal/domain"
)

// ChatRepository is the persistence surface the history reads and the
// exchange recorder need.
type ChatRepository interface {
	ListChats(ctx context.Context, userID uuid.UUID) ([]domain.Chat, error)
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error)
	CreateChat(ctx context.Context, userID uuid.UUID, title string) (domain.Chat, error)
	AddMessage(ctx context.Context, chatID uuid.UUID, role, content string) error
}

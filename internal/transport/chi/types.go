package chi

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusqa/campusqa/internal/domain"
)

type askRequest struct {
	Question string `json:"question"`
	UserID   string `json:"userId,omitempty"`
	ChatID   string `json:"chatId,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type askErrorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=register forgot"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// accountResponse is the envelope every /api account handler answers with.
type accountResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	UserID  *uuid.UUID   `json:"userId,omitempty"`
	User    *userPayload `json:"user,omitempty"`
}

type userPayload struct {
	Name string `json:"name"`
}

type chatPayload struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type messagePayload struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func chatToPayload(c domain.Chat) chatPayload {
	return chatPayload{ID: c.ID, UserID: c.UserID, Title: c.Title, CreatedAt: c.CreatedAt}
}

func messageToPayload(m domain.Message) messagePayload {
	return messagePayload{ID: m.ID, ChatID: m.ChatID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
}

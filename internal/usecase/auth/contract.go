package auth

import (
	"context"
	"time"

	"github.com/campusqa/campusqa/internal/domain"
	"github.com/campusqa/campusqa/internal/mail"
)

// UserRepository is the persistence surface the account flows need.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpsertRegistrationOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	SetRecoveryOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	Activate(ctx context.Context, email, passwordHash string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// Sender delivers issued one-time codes.
type Sender = mail.Sender

// Package user persists account rows in the users table.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusqa/campusqa/internal/domain"
)

// querier is the consumer interface over the pgx pool.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo implements usecase/auth.UserRepository.
type Repo struct {
	q querier
}

// New creates a user repository backed by a pgx pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{q: pool}
}

const userColumns = "id, email, password_hash, is_verified, otp_code, otp_expires_at, created_at"

// GetByEmail loads a user row. Returns domain.ErrUserNotFound when absent.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpsertRegistrationOTP creates an unverified row or refreshes its OTP.
// The is_verified guard makes concurrent registration attempts for a
// verified email fail atomically instead of racing a prior read.
func (r *Repo) UpsertRegistrationOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO users (email, otp_code, otp_expires_at, is_verified)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET otp_code = EXCLUDED.otp_code, otp_expires_at = EXCLUDED.otp_expires_at
		WHERE NOT users.is_verified`,
		email, code, expiresAt)
	if err != nil {
		return fmt.Errorf("upsert registration otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmailTaken
	}
	return nil
}

// SetRecoveryOTP updates the OTP fields of an existing verified account.
func (r *Repo) SetRecoveryOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		"UPDATE users SET otp_code = $1, otp_expires_at = $2 WHERE email = $3 AND is_verified",
		code, expiresAt, email)
	if err != nil {
		return fmt.Errorf("set recovery otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmailNotFound
	}
	return nil
}

// Activate stores the password hash, marks the account verified, and
// clears the OTP.
func (r *Repo) Activate(ctx context.Context, email, passwordHash string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, is_verified = TRUE, otp_code = NULL, otp_expires_at = NULL
		WHERE email = $2`,
		passwordHash, email)
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the OTP.
func (r *Repo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, otp_code = NULL, otp_expires_at = NULL
		WHERE email = $2`,
		passwordHash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		id           pgtype.UUID
		u            domain.User
		passwordHash *string
		otpCode      *string
		otpExpiresAt *time.Time
	)
	if err := row.Scan(&id, &u.Email, &passwordHash, &u.IsVerified, &otpCode, &otpExpiresAt, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if otpCode != nil {
		u.OTPCode = *otpCode
	}
	if otpExpiresAt != nil {
		u.OTPExpiresAt = *otpExpiresAt
	}
	return u, nil
}

// Package auth implements the account flows: login, OTP issue,
// registration verification and password reset.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusqa/campusqa/internal/domain"
	"github.com/campusqa/campusqa/internal/logger"
	"github.com/campusqa/campusqa/internal/mail"
)

// Service coordinates the users table, password hashing and OTP delivery.
type Service struct {
	users  UserRepository
	sender Sender

	// now is swapped in tests to pin expiry arithmetic.
	now func() time.Time
}

// New creates the account service.
func New(users UserRepository, sender Sender) *Service {
	return &Service{
		users:  users,
		sender: sender,
		now:    time.Now,
	}
}

// Login authenticates an email/password pair and returns the account on
// success. Failures map onto distinct sentinels so the transport can keep
// the four outcomes apart.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrNotRegistered
		}
		return domain.User{}, err
	}
	if !u.IsVerified {
		return domain.User{}, domain.ErrNotVerified
	}
	if u.PasswordHash == "" {
		logger.FromContext(ctx).Error("verified account without password hash",
			zap.String("email", email))
		return domain.User{}, domain.ErrCorruptAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrWrongPassword
	}
	return u, nil
}

// SendOTP issues a fresh code for either flow and hands it to the delivery
// layer. Registration refuses emails already tied to a verified account,
// recovery refuses emails without one.
func (s *Service) SendOTP(ctx context.Context, email string, purpose mail.Purpose) error {
	if !strings.Contains(email, "@") {
		return domain.ErrInvalidEmail
	}

	code, err := newOTP()
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(domain.OTPTTL)

	switch purpose {
	case mail.PurposeRegister:
		err = s.users.UpsertRegistrationOTP(ctx, email, code, expiresAt)
	case mail.PurposeRecover:
		err = s.users.SetRecoveryOTP(ctx, email, code, expiresAt)
	default:
		return fmt.Errorf("unknown otp purpose %q", purpose)
	}
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, email, code, purpose); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// Register finishes the registration flow: the supplied code must match
// the stored one and still be inside its window, after which the account
// gets its password hash and the verified flag.
func (s *Service) Register(ctx context.Context, email, password, code string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidEmail
		}
		return err
	}
	if err := s.checkOTP(u, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Activate(ctx, email, string(hash))
}

// ResetPassword validates the recovery code and replaces the stored hash.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword, code string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrEmailNotFound
		}
		return err
	}
	if err := s.checkOTP(u, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, email, string(hash))
}

func (s *Service) checkOTP(u domain.User, code string) error {
	if u.OTPCode == "" || u.OTPCode != code {
		return domain.ErrWrongOTP
	}
	if s.now().After(u.OTPExpiresAt) {
		return domain.ErrOTPExpired
	}
	return nil
}

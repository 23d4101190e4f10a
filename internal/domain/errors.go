package domain

import "errors"

var (
	// ErrEmptyQuestion signals a missing or blank question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrMissingCredentials signals absent model or vector index secrets.
	ErrMissingCredentials = errors.New("service credentials not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")

	// ErrUserNotFound signals a missing user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotRegistered signals a login attempt for an unknown email.
	ErrNotRegistered = errors.New("email not registered")
	// ErrNotVerified signals a login attempt on an unverified account.
	ErrNotVerified = errors.New("account not verified")
	// ErrCorruptAccount signals a verified account with no stored password hash.
	ErrCorruptAccount = errors.New("account record corrupt")
	// ErrWrongPassword signals a password mismatch.
	ErrWrongPassword = errors.New("wrong password")
	// ErrEmailTaken signals a registration attempt for a verified email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrEmailNotFound signals a recovery attempt for an unknown or unverified email.
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidEmail signals a malformed email or a verify attempt without a prior OTP.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrWrongOTP signals an OTP mismatch.
	ErrWrongOTP = errors.New("wrong otp")
	// ErrOTPExpired signals an OTP past its expiry.
	ErrOTPExpired = errors.New("otp expired")
)

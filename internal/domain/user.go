package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPTTL is how long an issued one-time code stays valid.
const OTPTTL = 5 * time.Minute

// User is a row in the users table. OTPCode and OTPExpiresAt are zero
// when no code is pending; PasswordHash is empty until verification.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsVerified   bool
	OTPCode      string
	OTPExpiresAt time.Time
	CreatedAt    time.Time
}

// Package mail delivers one-time codes to users. Delivery is a pluggable
// capability: handlers depend only on Sender.
package mail

import "context"

// Purpose tells the delivery layer which flow issued the code.
type Purpose string

const (
	// PurposeRegister marks a registration verification code.
	PurposeRegister Purpose = "register"
	// PurposeRecover marks a password recovery code.
	PurposeRecover Purpose = "forgot"
)

// Sender delivers a one-time code to an email address.
type Sender interface {
	Send(ctx context.Context, to, code string, purpose Purpose) error
}

package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes codes to the server log instead of sending real email.
// Intended for development and test environments.
type LogSender struct {
	logger *zap.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a log-backed sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the code. Never fails.
func (s *LogSender) Send(_ context.Context, to, code string, purpose Purpose) error {
	s.logger.Info("otp issued",
		zap.String("to", to),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
	)
	return nil
}

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// newOTP returns a uniformly random six digit code, zero padded.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

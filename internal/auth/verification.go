package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-errors"
)

// VerificationTokenTTL bounds how long an email verification token can
// be redeemed.
const VerificationTokenTTL = time.Hour

const verificationTokenBytes = 32

// NewVerificationToken returns a 64-character hex token from 32 random
// bytes.
func NewVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate verification token")
	}
	return hex.EncodeToString(buf), nil
}

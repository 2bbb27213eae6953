package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash. Each call salts the
// digest independently, so equal inputs produce different outputs.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. A malformed digest compares as a
// mismatch rather than an internal failure.
func ComparePasswordAndHash(password, hash string) error {
	// Malformed digests surface as bcrypt parse errors; collapse them
	// into the mismatch sentinel so callers see exactly one failure.
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

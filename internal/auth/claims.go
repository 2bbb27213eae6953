package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/moneta-app/moneta/internal/store"
)

// SessionUser is the sanitized projection of a user record. It is the
// only user shape the HTTP layer ever sees: by construction it cannot
// carry the password hash or the verification token pair.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewSessionUser projects a persisted record into its session view.
func NewSessionUser(u *store.User) SessionUser {
	return SessionUser{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// TokenClaims is the payload embedded in signed session tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserID returns the user ID carried by the claims.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// SessionUser rebuilds the sanitized principal from the claims.
func (c *TokenClaims) SessionUser() SessionUser {
	return SessionUser{
		ID:        c.UserID(),
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

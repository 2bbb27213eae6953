package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/store"
)

// Credentials is the union of inputs a strategy can consume. Local
// reads Email and Password; CookieToken reads Token.
type Credentials struct {
	Email    string
	Password string
	Token    string
}

// Strategy authenticates a request and produces the sanitized
// principal, or a rejection reason. Strategies are built once at
// startup with their dependencies injected and shared across requests.
type Strategy interface {
	Authenticate(ctx context.Context, creds Credentials) (*SessionUser, error)
}

// UserFinder is the slice of the users repository the strategies need.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*store.User, error)
	FindByID(ctx context.Context, id string) (*store.User, error)
}

// LocalStrategy checks an email and password against the store. Used on
// the login endpoint only.
type LocalStrategy struct {
	users  UserFinder
	logger *logging.Logger
}

var _ Strategy = (*LocalStrategy)(nil)

// NewLocalStrategy builds the local credentials strategy.
func NewLocalStrategy(users UserFinder, logger *logging.Logger) *LocalStrategy {
	return &LocalStrategy{users: users, logger: logger}
}

func (s *LocalStrategy) Authenticate(ctx context.Context, creds Credentials) (*SessionUser, error) {
	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if store.IsNotFound(err) {
			// Same rejection as a wrong password: no user enumeration.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("local strategy lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
	}

	if err := ComparePasswordAndHash(creds.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	principal := NewSessionUser(user)
	return &principal, nil
}

// CookieTokenStrategy validates the session token from the cookie and
// re-resolves the user. Used on every endpoint requiring a session.
type CookieTokenStrategy struct {
	users  UserFinder
	tokens TokenService
	logger *logging.Logger
}

var _ Strategy = (*CookieTokenStrategy)(nil)

// NewCookieTokenStrategy builds the token-bearer strategy.
func NewCookieTokenStrategy(users UserFinder, tokens TokenService, logger *logging.Logger) *CookieTokenStrategy {
	return &CookieTokenStrategy{users: users, tokens: tokens, logger: logger}
}

func (s *CookieTokenStrategy) Authenticate(ctx context.Context, creds Credentials) (*SessionUser, error) {
	claims, err := s.tokens.Validate(creds.Token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("cookie token strategy lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user")
	}

	principal := NewSessionUser(user)
	return &principal, nil
}

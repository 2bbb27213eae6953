package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value cannot be an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the single failure a password compare
// can produce.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials covers both an unknown email and a wrong
// password; the wording deliberately leaks neither.
var ErrInvalidCredentials = errors.New("incorrect email or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrEmailNotVerified is the one login rejection that is allowed to be
// specific: the credentials were right.
var ErrEmailNotVerified = errors.New("please verify your email to log in", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("EMAIL_NOT_VERIFIED")

// ErrSessionInvalid is returned when a valid token references a user
// that no longer exists.
var ErrSessionInvalid = errors.New("your session is invalid, please log in again", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("SESSION_INVALID")

// ErrUnableToFindSession is the error when the request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("NO_SESSION")

// ErrEmailTaken rejects registration against an existing email.
var ErrEmailTaken = errors.New("user already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("EMAIL_TAKEN")

// ErrVerificationInvalid covers a token that never existed and one past
// its expiry; the two are intentionally indistinguishable.
var ErrVerificationInvalid = errors.New("invalid or expired token", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("VERIFICATION_INVALID")

// ErrTokenExpired is returned for session tokens past their expiry.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned for tokens that fail to parse or carry
// a bad signature.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed")
}

package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/auth"
)

const userKey = "current_user"

// RequireAuth guards a route with the token-from-cookie strategy. The
// sanitized principal it produces is attached to the request for the
// controller.
func RequireAuth(strategy auth.Strategy, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return auth.ErrUnableToFindSession
		}

		principal, err := strategy.Authenticate(c.UserContext(), auth.Credentials{Token: token})
		if err != nil {
			return err
		}

		c.Locals(userKey, principal)
		return c.Next()
	}
}

// CurrentUser returns the principal attached by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*auth.SessionUser, error) {
	principal, ok := c.Locals(userKey).(*auth.SessionUser)
	if !ok || principal == nil {
		return nil, auth.ErrUnableToFindSession
	}
	return principal, nil
}

// currentOwnerID returns the authenticated user's id as a UUID.
func currentOwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	principal, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(principal.ID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryAuth, "session carries an invalid user id").
			WithCode(errors.CodeUnauthorized)
	}

	return id, nil
}

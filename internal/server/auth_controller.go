package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/moneta-app/moneta/internal/auth"
	"github.com/moneta-app/moneta/internal/logging"
)

// AuthController orchestrates registration, verification and the
// session lifecycle.
type AuthController struct {
	Logger   *logging.Logger
	Local    auth.Strategy
	Tokens   auth.TokenService
	Register *auth.RegisterUserHandler
	Verify   *auth.VerifyEmailHandler
	Cookies  CookiePolicy

	// DeterministicIDs derives user ids from the email instead of
	// generating random ones.
	DeterministicIDs bool
}

// RegisterPost handles POST /register.
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := PayloadFromContext[RegisterPayload](c)

	principal, err := a.Register.Execute(c.UserContext(), auth.RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		UseHashid: a.DeterministicIDs,
	})
	if err != nil {
		a.Logger.Error("register user error", "error", err)
		return err
	}

	return c.Status(http.StatusCreated).JSON(principal)
}

// VerifyEmailGet handles GET /verify-email?token=.
func (a *AuthController) VerifyEmailGet(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return auth.ErrVerificationInvalid
	}

	if err := a.Verify.Execute(c.UserContext(), auth.VerifyEmailMessage{Token: token}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

// LoginPost handles POST /login: the local strategy authenticates,
// then a token is issued for the principal and set as the session
// cookie.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := PayloadFromContext[LoginPayload](c)

	principal, err := a.Local.Authenticate(c.UserContext(), auth.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Info("login rejected", "error", err)
		return err
	}

	token, err := a.Tokens.Issue(*principal)
	if err != nil {
		a.Logger.Error("token issue failed", "error", err)
		return err
	}

	c.Cookie(a.Cookies.Session(token))

	return c.JSON(principal)
}

// LogoutPost handles POST /logout by clearing the session cookie.
func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	c.Cookie(a.Cookies.Expired())

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// ProfileGet handles GET /profile, returning the principal the cookie
// strategy attached. It is already sanitized; nothing else is loaded.
func (a *AuthController) ProfileGet(c *fiber.Ctx) error {
	principal, err := CurrentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(principal)
}

package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/mail"
	"github.com/moneta-app/moneta/internal/store"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries the validated registration input.
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates an unverified user and hands the
// verification mail to the mailer. When the mail cannot be handed off,
// the created record is compensating-deleted so no unverifiable
// account lingers; the delete only ever runs after a successful
// insert.
type RegisterUserHandler struct {
	repo   store.RepositoryManager
	mailer mail.Mailer
	logger *logging.Logger
}

// NewRegisterUserHandler wires the handler.
func NewRegisterUserHandler(repo store.RepositoryManager, mailer mail.Mailer, logger *logging.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, mailer: mailer, logger: logger}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*SessionUser, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*SessionUser, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if _, err := h.repo.Users().FindByEmail(ctx, event.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !store.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing email")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	token, err := NewVerificationToken()
	if err != nil {
		return nil, err
	}

	user := &store.User{
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		Email:        event.Email,
		PasswordHash: hash,
	}
	user.SetVerificationToken(token, time.Now().Add(VerificationTokenTTL))

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	var created *store.User
	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err = h.repo.Users().CreateTx(ctx, tx, user)
		if err != nil {
			// Concurrent registration with the same email lands here;
			// surface the exact same conflict as the advisory check.
			if store.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}
		return nil
	})
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	// created is set only when the insert committed, so the
	// compensating delete cannot fire for a failed creation.
	if err := h.mailer.SendVerificationEmail(ctx, created.Email, token); err != nil {
		h.logger.Error("verification email handoff failed", "error", err, "user_id", created.ID)
		if delErr := h.repo.Users().DeleteByID(ctx, created.ID); delErr != nil {
			h.logger.Error("compensating delete failed", "error", delErr, "user_id", created.ID)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
	}

	principal := NewSessionUser(created)
	return &principal, nil
}

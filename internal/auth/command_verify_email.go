package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/store"
)

// VerifyEmailMessage carries the token from the verification link.
type VerifyEmailMessage struct {
	Token string `json:"token"`
}

func (e VerifyEmailMessage) Type() string { return "user.verify_email" }

// VerifyEmailHandler redeems a verification token. A token that never
// existed and one past its expiry produce the same rejection.
type VerifyEmailHandler struct {
	repo   store.RepositoryManager
	logger *logging.Logger
}

// NewVerifyEmailHandler wires the handler.
func NewVerifyEmailHandler(repo store.RepositoryManager, logger *logging.Logger) *VerifyEmailHandler {
	return &VerifyEmailHandler{repo: repo, logger: logger}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().FindByVerificationToken(ctx, event.Token, time.Now())
	if err != nil {
		if store.IsNotFound(err) {
			return ErrVerificationInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
	}

	// MarkVerified clears the token pair, making the token single-use.
	if _, err := h.repo.Users().MarkVerified(ctx, user.ID); err != nil {
		if store.IsNotFound(err) {
			return ErrVerificationInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark user verified")
	}

	return nil
}

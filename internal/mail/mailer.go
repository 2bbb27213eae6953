package mail

import (
	"context"
	"fmt"

	"github.com/moneta-app/moneta/internal/logging"
)

// Mailer hands a message to whatever delivers outbound email. Delivery
// itself happens outside this process.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}

// VerificationLink builds the link embedded in verification emails.
func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)
}

// LogMailer writes the message to the log instead of sending it. The
// development and test backend.
type LogMailer struct {
	BaseURL string
	Logger  *logging.Logger
}

var _ Mailer = (*LogMailer)(nil)

func (m *LogMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	m.Logger.Info("verification email",
		"to", to,
		"link", VerificationLink(m.BaseURL, token),
	)
	return nil
}

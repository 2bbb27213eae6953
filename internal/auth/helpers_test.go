package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/store"
	"github.com/stretchr/testify/require"
)

// newTestRepo opens a private in-memory database, runs the migrations
// and returns the wired repository manager.
func newTestRepo(t *testing.T) store.RepositoryManager {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := store.Open(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.RunMigrations(db.DB))

	repo := store.NewRepositoryManager(db)
	repo.MustValidate()

	return repo
}

// recorderMailer captures the verification handoff instead of sending,
// and can be told to fail.
type recorderMailer struct {
	To    string
	Token string
	Calls int
	Err   error
}

func (m *recorderMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	m.To = to
	m.Token = token
	return nil
}

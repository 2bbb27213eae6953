package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/store"
	"github.com/stretchr/testify/require"
)

// defaultCategoryNames are the seeded shared categories, in the order
// ListForOwner returns them.
var defaultCategoryNames = []string{
	"Entertainment",
	"Groceries",
	"Rent",
	"Salary",
	"Transport",
	"Utilities",
}

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

// seedUser persists a minimal verified user and returns it.
func seedUser(t *testing.T, repo store.RepositoryManager, email string) *store.User {
	t.Helper()

	user, err := repo.Users().Create(context.Background(), &store.User{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        email,
		PasswordHash: "$2a$10$not.a.real.hash.but.opaque.to.the.store",
		IsVerified:   true,
	})
	require.NoError(t, err)

	return user
}

// seedCategory persists a category owned by the given user.
func seedCategory(t *testing.T, repo store.RepositoryManager, ownerID uuid.UUID, name string) *store.Category {
	t.Helper()

	record, err := repo.Categories().Create(context.Background(), &store.Category{
		Name:   name,
		UserID: &ownerID,
	})
	require.NoError(t, err)

	return record
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// RepositoryManager exposes all repositories plus transaction control.
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Categories() Categories
	Transactions() Transactions
}

type mngr struct {
	db           *bun.DB
	users        Users
	categories   Categories
	transactions Transactions
}

// NewRepositoryManager wires every repository onto a shared bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:           db,
		users:        NewUsersRepository(db),
		categories:   NewCategoriesRepository(db),
		transactions: NewTransactionsRepository(db),
	}
}

// Open connects to the sqlite database at path and returns a bun handle.
// Foreign keys are off by default in sqlite and the pragma is scoped to
// a connection, so it goes into the DSN to cover the whole pool.
func Open(path string) (*bun.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, path+sep+"_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	if m.transactions == nil {
		return errors.New("repository transactions should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Categories() Categories {
	return m.categories
}

func (m mngr) Transactions() Transactions {
	return m.transactions
}

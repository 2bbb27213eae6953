package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Categories is the persistence surface for categories. Queries are
// always scoped to {owner's categories ∪ default categories} so one
// user can never observe another user's customizations.
type Categories interface {
	// FindConflicting returns a category in the owner's scope whose
	// name matches case-insensitively, or nil when the name is free.
	// excludeID skips the record being renamed; pass 0 on create.
	FindConflicting(ctx context.Context, ownerID uuid.UUID, name string, excludeID int64) (*Category, error)

	// ListForOwner returns the owner's categories followed by the
	// defaults, each group sorted by name.
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error)

	// GetOwned fetches a category only when it belongs to the owner.
	GetOwned(ctx context.Context, id int64, ownerID uuid.UUID) (*Category, error)

	// GetInScope fetches a category visible to the owner: their own or
	// a shared default. Transactions may reference either.
	GetInScope(ctx context.Context, id int64, ownerID uuid.UUID) (*Category, error)

	Create(ctx context.Context, record *Category) (*Category, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Category) (*Category, error)

	// RenameOwned updates the name of an owner's category. Returns the
	// updated record, or a not-found error when the id does not exist
	// in the owner's scope.
	RenameOwned(ctx context.Context, id int64, ownerID uuid.UUID, name string) (*Category, error)

	// DeleteOwned removes an owner's category. A miss (wrong id or
	// wrong owner) reports not-found; the two are indistinguishable.
	DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) error
}

type categories struct {
	db *bun.DB
}

var _ Categories = (*categories)(nil)

// NewCategoriesRepository creates the categories repository.
func NewCategoriesRepository(db *bun.DB) Categories {
	return &categories{db: db}
}

func (r *categories) FindConflicting(ctx context.Context, ownerID uuid.UUID, name string, excludeID int64) (*Category, error) {
	record := &Category{}

	q := r.db.NewSelect().
		Model(record).
		Where("lower(?TableAlias.name) = lower(?)", name).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.user_id IS NULL").
				WhereOr("?TableAlias.user_id = ?", ownerID.String())
		})

	if excludeID != 0 {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return record, nil
}

func (r *categories) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error) {
	var records []Category

	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.user_id = ?", ownerID.String()).
				WhereOr("?TableAlias.user_id IS NULL")
		}).
		// Owned categories surface before the shared defaults.
		OrderExpr("CASE WHEN ?TableAlias.user_id IS NULL THEN 1 ELSE 0 END ASC").
		OrderExpr("lower(?TableAlias.name) ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []Category{}
	}

	return records, nil
}

func (r *categories) GetOwned(ctx context.Context, id int64, ownerID uuid.UUID) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", ownerID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *categories) GetInScope(ctx context.Context, id int64, ownerID uuid.UUID) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.user_id = ?", ownerID.String()).
				WhereOr("?TableAlias.user_id IS NULL")
		}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *categories) Create(ctx context.Context, record *Category) (*Category, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *categories) CreateTx(ctx context.Context, tx bun.IDB, record *Category) (*Category, error) {
	_, err := tx.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *categories) RenameOwned(ctx context.Context, id int64, ownerID uuid.UUID, name string) (*Category, error) {
	record := &Category{}

	res, err := r.db.NewUpdate().
		Model(record).
		Set("name = ?", name).
		Set("updated_at = current_timestamp").
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", ownerID.String()).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}

	return record, nil
}

func (r *categories) DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Category)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

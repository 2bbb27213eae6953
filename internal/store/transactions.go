package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Transactions is the persistence surface for income/expense entries.
type Transactions interface {
	Create(ctx context.Context, record *Transaction) (*Transaction, error)

	// ListForOwner returns the owner's transactions, newest first.
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error)

	// GetOwned fetches a transaction only when it belongs to the owner.
	GetOwned(ctx context.Context, id int64, ownerID uuid.UUID) (*Transaction, error)

	// UpdateOwned rewrites the mutable fields of an owner's entry.
	UpdateOwned(ctx context.Context, record *Transaction) (*Transaction, error)

	DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) error

	// CountByCategory reports how many of the owner's transactions
	// still reference the category. The category deletion guard.
	CountByCategory(ctx context.Context, categoryID int64, ownerID uuid.UUID) (int, error)
}

type transactions struct {
	db *bun.DB
}

var _ Transactions = (*transactions)(nil)

// NewTransactionsRepository creates the transactions repository.
func NewTransactionsRepository(db *bun.DB) Transactions {
	return &transactions{db: db}
}

func (r *transactions) Create(ctx context.Context, record *Transaction) (*Transaction, error) {
	_, err := r.db.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *transactions) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error) {
	var records []Transaction

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", ownerID.String()).
		OrderExpr("?TableAlias.date DESC").
		OrderExpr("?TableAlias.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []Transaction{}
	}

	return records, nil
}

func (r *transactions) GetOwned(ctx context.Context, id int64, ownerID uuid.UUID) (*Transaction, error) {
	record := &Transaction{}
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

func (r *transactions) UpdateOwned(ctx context.Context, record *Transaction) (*Transaction, error) {
	res, err := r.db.NewUpdate().
		Model(record).
		Set("amount = ?", record.Amount).
		Set("description = ?", record.Description).
		Set("date = ?", record.Date).
		Set("type = ?", record.Type).
		Set("category_id = ?", record.CategoryID).
		Set("updated_at = current_timestamp").
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.user_id = ?", record.UserID.String()).
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

func (r *transactions) DeleteOwned(ctx context.Context, id int64, ownerID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Transaction)(nil)).
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

func (r *transactions) CountByCategory(ctx context.Context, categoryID int64, ownerID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Transaction)(nil)).
		Where("?TableAlias.category_id = ?", categoryID).
		Where("?TableAlias.user_id = ?", ownerID.String()).
		Count(ctx)
}

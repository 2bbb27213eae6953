package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted identity record. The password hash and the
// verification token pair never leave the store boundary as JSON; the
// HTTP layer works with auth.SessionUser projections instead.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID                       uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName                string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName                 string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email                    string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash             string     `bun:"password_hash,notnull" json:"-"`
	IsVerified               bool       `bun:"is_verified" json:"is_verified,omitempty"`
	VerificationToken        *string    `bun:"verification_token,nullzero" json:"-"`
	VerificationTokenExpires *time.Time `bun:"verification_token_expires,nullzero" json:"-"`
	CreatedAt                *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt                *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// SetVerificationToken sets the token pair. Both fields move together:
// either both set or both nil.
func (u *User) SetVerificationToken(token string, expires time.Time) *User {
	u.VerificationToken = &token
	u.VerificationTokenExpires = &expires
	return u
}

// Category is a transaction bucket. A nil UserID marks a shared default
// category visible to every user.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	Name      string     `bun:"name,notnull" json:"name"`
	UserID    *uuid.UUID `bun:"user_id,nullzero,type:uuid" json:"user_id,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsDefault reports whether the category belongs to the shared scope.
func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

// TransactionType is the direction of a transaction.
type TransactionType = string

const (
	// TransactionIncome marks money coming in.
	TransactionIncome TransactionType = "INCOME"
	// TransactionExpense marks money going out.
	TransactionExpense TransactionType = "EXPENSE"
)

// Transaction is a single categorized income or expense entry.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:txn"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Amount      float64         `bun:"amount,notnull" json:"amount"`
	Description string          `bun:"description,notnull" json:"description"`
	Date        time.Time       `bun:"date,notnull" json:"date"`
	Type        TransactionType `bun:"type,notnull" json:"type"`
	CategoryID  int64           `bun:"category_id,notnull" json:"category_id"`
	UserID      uuid.UUID       `bun:"user_id,notnull,type:uuid" json:"user_id"`
	CreatedAt   *time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

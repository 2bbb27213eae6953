package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/goliatone/go-repository-bun"
)

// IsUniqueViolation reports whether err comes from a unique constraint.
// The sqlite drivers behind sqliteshim expose no shared error type, so
// we match the message the same way the driver surfaces it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

// IsForeignKeyViolation reports whether err comes from a foreign key
// constraint, such as deleting a category a transaction still
// references.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "constraint failed: FOREIGN KEY")
}

// IsNotFound reports whether err means the record does not exist,
// covering both the generic repository errors and raw bun misses.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

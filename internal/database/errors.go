package database

import (
	"errors"
	"strings"

	"github.com/example/flashcards/internal/apperr"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// storageError wraps a driver failure into the storage error kind
func storageError(op string, err error) error {
	return &apperr.StorageError{Op: op, Err: err}
}

// uniqueViolation reports whether err is a unique constraint failure
// and returns the driver's description of the violated constraint
func uniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return sqliteErr.Error(), true
		}
		return "", false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint + " " + pqErr.Detail, true
	}
	return "", false
}

// playlistConstraintError converts a unique violation on the playlists table
func playlistConstraintError(detail, id, name string) error {
	if strings.Contains(detail, "name") {
		return &apperr.ConstraintError{Field: "name", Value: name}
	}
	return &apperr.ConstraintError{Field: "id", Value: id}
}

package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// isConstraintError reports whether the error is a SQLite constraint
// violation (primary key, unique, foreign key).
func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// isUniqueViolation reports whether the error is a primary key or unique
// constraint violation specifically.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

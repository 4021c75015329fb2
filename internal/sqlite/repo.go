// Package sqlite implements the store contracts over a sqlite database.
package sqlite

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jharlow/reelist/internal/reelist"
)

// Ensure Repo implements the store contracts
var (
	_ reelist.Repository = (*Repo)(nil)
	_ reelist.Catalog    = (*Repo)(nil)
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}

// isUniqueViolation reports whether the driver rejected a write for
// hitting a unique index or primary key.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}

	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

package store

import (
	"database/sql"
	"errors"

	"fjacquet/finledger/internal/ledgererror"

	"github.com/mattn/go-sqlite3"
)

// translate maps SQLite constraint failures onto the ledger error taxonomy.
// Other errors are returned unchanged.
func translate(table string, err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return err
	}

	var kind error
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		kind = ledgererror.ErrDuplicate
	case sqlite3.ErrConstraintForeignKey:
		kind = ledgererror.ErrNotFound
	default:
		kind = ledgererror.ErrInvariant
	}

	return &ledgererror.ConstraintError{Table: table, Kind: kind, Err: err}
}

// notFound converts sql.ErrNoRows into a ledger not-found error.
func notFound(err error, entity string, key interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ledgererror.NotFound(entity, key)
	}
	return err
}

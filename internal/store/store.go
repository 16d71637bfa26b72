// Package store persists the ledger in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"fjacquet/finledger/internal/fileutils"
	"fjacquet/finledger/internal/logging"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries holds every read and write statement of the ledger. It runs
// against the database directly or inside a unit of work.
type Queries struct {
	db DBTX
}

// Store owns the database handle.
type Store struct {
	*Queries

	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open opens (creating if needed) the SQLite database at path and applies
// pending schema migrations. Foreign keys and WAL journaling are enabled on
// every connection.
func Open(ctx context.Context, path string, busyTimeoutMS int, logger logging.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d", path, busyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		Queries: &Queries{db: db},
		db:      db,
		path:    path,
		logger:  logger,
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("Opened ledger database", logging.F(logging.FieldDatabase, path))
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// WithTx runs fn as one unit of work. If fn returns an error or panics the
// transaction is rolled back; otherwise it is committed.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Package sqlite implements repository.HelperRepository on an embedded
// SQLite database.
//
// It is the alternative to the spreadsheet store for registries that have
// grown past what a whole-file rewrite per registration can handle. Rows
// are inserted one at a time and the spreadsheet is only produced when
// someone downloads it (see Export).
//
// modernc.org/sqlite is a pure Go port, so no C toolchain is needed.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
)

// Store wraps a sql.DB connection pool.
type Store struct {
	conn     *sql.DB
	filename string
}

// New opens the database at dbPath. filename is the name offered for the
// exported spreadsheet.
//
// dbPath examples:
//   - "data/helpers.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests)
func New(dbPath, filename string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every pooled connection to ":memory:" would be its own empty database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	return &Store{conn: conn, filename: filename}, nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Filename is the name the exported spreadsheet is offered under.
func (s *Store) Filename() string {
	return s.filename
}

// Initialize creates the helpers table. CREATE TABLE IF NOT EXISTS keeps it
// idempotent.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS helpers (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL DEFAULT '',
			age               INTEGER NOT NULL CHECK (age >= 0),
			gender            TEXT NOT NULL,
			address           TEXT NOT NULL DEFAULT '',
			contact           TEXT NOT NULL DEFAULT '',
			experience        INTEGER NOT NULL CHECK (experience >= 0),
			photo_path        TEXT NOT NULL,
			rate              REAL NOT NULL CHECK (rate >= 0),
			registration_date TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_helpers_rate ON helpers(rate);
	`)
	if err != nil {
		return apperror.Storage("creating helpers table", err)
	}
	return nil
}

// Package sqlite provides the on-device record store: one JSON record per
// scope in a single local table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"example.com/workouttracker/internal/domain"
)

// DefaultScope is the fixed namespace used when the store serves a single
// implicit device-local user.
const DefaultScope = "local"

const schema = `CREATE TABLE IF NOT EXISTS records (
	scope TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists records in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure records schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load implements domain.RecordStore. Malformed persisted data coerces to
// the nearest valid record rather than failing.
func (s *Store) Load(ctx context.Context, scope string) (*domain.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE scope = ?`, scope).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	return domain.DecodeRecord(data), nil
}

// Save implements domain.RecordStore with a whole-record upsert.
func (s *Store) Save(ctx context.Context, scope string, rec *domain.Record) error {
	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	const stmt = `INSERT INTO records (scope, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(scope) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, stmt, scope, data, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

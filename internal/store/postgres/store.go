// Package postgres provides the remote record store: one JSONB record per
// authenticated user.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workouttracker/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	user_id TEXT PRIMARY KEY,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store persists records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store on an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the records table when missing. Called at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure records schema: %w", err)
	}
	return nil
}

// Load implements domain.RecordStore. Malformed persisted data coerces to
// the nearest valid record rather than failing.
func (s *Store) Load(ctx context.Context, scope string) (*domain.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM records WHERE user_id = $1`, scope).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	return domain.DecodeRecord(data), nil
}

// Save implements domain.RecordStore with a whole-record upsert; the most
// recent save fully overwrites prior state.
func (s *Store) Save(ctx context.Context, scope string, rec *domain.Record) error {
	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	const stmt = `INSERT INTO records (user_id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET data = excluded.data, updated_at = now()`

	if _, err := s.pool.Exec(ctx, stmt, scope, data); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

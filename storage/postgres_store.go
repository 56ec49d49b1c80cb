package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists snapshots to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a connection pool without contacting the server.
// Callers ping (with retry) and then call NewPostgresStore.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return db, nil
}

// NewPostgresStore runs schema migrations on db and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS table_snapshots (
			cache_key  TEXT        PRIMARY KEY,
			source     TEXT        NOT NULL,
			data       BYTEA       NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_table_snapshots_source ON table_snapshots(source);
	`)
	return err
}

func (ps *PostgresStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	s := &Snapshot{}
	err := ps.db.QueryRowContext(ctx, `
		SELECT cache_key, source, data, created_at
		FROM table_snapshots
		WHERE cache_key = $1
	`, key).Scan(&s.Key, &s.Source, &s.Data, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}
	return s, nil
}

func (ps *PostgresStore) Save(ctx context.Context, s *Snapshot) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO table_snapshots (cache_key, source, data, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE
		SET source = EXCLUDED.source, data = EXCLUDED.data, created_at = EXCLUDED.created_at
	`, s.Key, s.Source, s.Data, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}
	return nil
}

func (ps *PostgresStore) DeleteSource(ctx context.Context, source string) error {
	_, err := ps.db.ExecContext(ctx, "DELETE FROM table_snapshots WHERE source = $1", source)
	if err != nil {
		return fmt.Errorf("postgres: delete snapshots: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

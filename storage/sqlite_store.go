package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots to a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and migrates it.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS table_snapshots (
			cache_key  TEXT    PRIMARY KEY,
			source     TEXT    NOT NULL,
			data       BLOB    NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_table_snapshots_source ON table_snapshots(source);
	`)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	snap := &Snapshot{}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT cache_key, source, data, created_at FROM table_snapshots WHERE cache_key = ?`, key,
	).Scan(&snap.Key, &snap.Source, &snap.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load snapshot: %w", err)
	}
	snap.CreatedAt = time.UnixMilli(created).UTC()
	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO table_snapshots (cache_key, source, data, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE
		SET source = excluded.source, data = excluded.data, created_at = excluded.created_at
	`, snap.Key, snap.Source, snap.Data, snap.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSource(ctx context.Context, source string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM table_snapshots WHERE source = ?`, source); err != nil {
		return fmt.Errorf("sqlite: delete snapshots: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

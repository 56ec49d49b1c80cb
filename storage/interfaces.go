package storage

import (
	"context"
	"errors"
	"time"

	"housing-dashboard/models"
)

// ErrCacheMiss is returned by a SnapshotStore when no snapshot exists for a key.
var ErrCacheMiss = errors.New("snapshot not found")

// Snapshot is a serialized normalized table for one version of a source file.
type Snapshot struct {
	Key       string
	Source    string
	Data      []byte
	CreatedAt time.Time
}

// SnapshotStore is the interface any snapshot backend must satisfy.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	// DeleteSource drops every snapshot taken from source.
	DeleteSource(ctx context.Context, source string) error
	Close() error
}

// TableWriter is the interface for exporting a normalized table.
type TableWriter interface {
	Write(rows []*models.Respondent) error
	Close() error
}

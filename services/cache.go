package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"housing-dashboard/models"
	"housing-dashboard/storage"
	"housing-dashboard/utils"
)

// Table is one immutable, normalized load of the survey file.
// A failed load is an empty Table with Err set.
type Table struct {
	ID       string
	Source   string
	Key      string
	LoadedAt time.Time
	Rows     []*models.Respondent
	Err      error
}

// Message returns the load error text, or "" for a good table.
func (t *Table) Message() string {
	if t.Err == nil {
		return ""
	}
	return t.Err.Error()
}

// KeyFunc identifies the current version of a file.
type KeyFunc func(path string) (string, error)

// Loader reads raw records from a file.
type Loader func(path string) ([]*models.RawSurvey, error)

// StatKey identifies a file by absolute path, modification time and size.
func StatKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size()), nil
}

// HashKey identifies a file by the sha256 of its content.
func HashKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// TableCache memoizes the normalized table per file version. Safe for
// concurrent use; a returned Table is never mutated.
type TableCache struct {
	mu         sync.Mutex
	logger     *utils.Logger
	normalizer *Normalizer
	keyFn      KeyFunc
	load       Loader
	store      storage.SnapshotStore
	entries    map[string]*Table
}

// CacheOption customises a TableCache.
type CacheOption func(*TableCache)

func WithKeyFunc(fn KeyFunc) CacheOption { return func(c *TableCache) { c.keyFn = fn } }
func WithLoader(fn Loader) CacheOption { return func(c *TableCache) { c.load = fn } }
func WithStore(s storage.SnapshotStore) CacheOption { return func(c *TableCache) { c.store = s } }

// NewTableCache creates a cache keyed by StatKey that reads CSV files.
func NewTableCache(logger *utils.Logger, normalizer *Normalizer, opts ...CacheOption) *TableCache {
	c := &TableCache{
		logger:     logger,
		normalizer: normalizer,
		keyFn:      StatKey,
		load:       storage.ReadSurveyCSV,
		entries:    make(map[string]*Table),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the table for the current version of path, loading it when
// the file changed or was never loaded. It never returns nil.
func (c *TableCache) Get(ctx context.Context, path string) *Table {
	source := absPath(path)

	key, err := c.key(path)
	if err != nil {
		return c.failed(source, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.entries[source]; ok && t.Key == key {
		return t
	}

	if t := c.fromStore(ctx, source, key); t != nil {
		c.entries[source] = t
		return t
	}

	raw, err := c.load(path)
	if err != nil {
		return c.failed(source, err)
	}

	t := &Table{
		ID:       uuid.NewString(),
		Source:   source,
		Key:      key,
		LoadedAt: time.Now(),
		Rows:     c.normalizer.Normalize(raw),
	}
	c.logger.Info("[cache] Loaded %d rows from %s (snapshot %s)", len(t.Rows), source, t.ID)

	c.toStore(ctx, t)
	c.entries[source] = t
	return t
}

// key combines the file version with the normalizer's assumptions, so a
// stored snapshot is only reused when both match.
func (c *TableCache) key(path string) (string, error) {
	fileKey, err := c.keyFn(path)
	if err != nil {
		return "", err
	}
	return fileKey + "|assumptions:" + c.normalizer.Fingerprint(), nil
}

// Invalidate drops the memoized and stored tables for path.
func (c *TableCache) Invalidate(ctx context.Context, path string) error {
	source := absPath(path)

	c.mu.Lock()
	delete(c.entries, source)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.DeleteSource(ctx, source); err != nil {
		return fmt.Errorf("cache: invalidate %q: %w", source, err)
	}
	c.logger.Info("[cache] Invalidated %s", source)
	return nil
}

// Purge drops every memoized table. Stored snapshots are kept.
func (c *TableCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Table)
}

func (c *TableCache) failed(source string, err error) *Table {
	c.logger.Error("[cache] Error loading file %s: %v", source, err)
	return &Table{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		Rows:     []*models.Respondent{},
		Err:      fmt.Errorf("error loading file: %w", err),
	}
}

func (c *TableCache) fromStore(ctx context.Context, source, key string) *Table {
	if c.store == nil {
		return nil
	}

	snap, err := c.store.Load(ctx, key)
	if errors.Is(err, storage.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		c.logger.Warn("[cache] Snapshot lookup failed, rebuilding: %v", err)
		return nil
	}

	var rows []*models.Respondent
	if err := json.Unmarshal(snap.Data, &rows); err != nil {
		c.logger.Warn("[cache] Snapshot %s is unreadable, rebuilding: %v", key, err)
		return nil
	}
	if rows == nil {
		rows = []*models.Respondent{}
	}

	c.logger.Info("[cache] Restored %d rows for %s from snapshot store", len(rows), source)
	return &Table{
		ID:       uuid.NewString(),
		Source:   source,
		Key:      key,
		LoadedAt: snap.CreatedAt,
		Rows:     rows,
	}
}

func (c *TableCache) toStore(ctx context.Context, t *Table) {
	if c.store == nil {
		return
	}

	data, err := json.Marshal(t.Rows)
	if err != nil {
		c.logger.Warn("[cache] Could not encode snapshot: %v", err)
		return
	}
	snap := &storage.Snapshot{Key: t.Key, Source: t.Source, Data: data, CreatedAt: t.LoadedAt}
	if err := c.store.Save(ctx, snap); err != nil {
		c.logger.Warn("[cache] Could not save snapshot: %v", err)
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

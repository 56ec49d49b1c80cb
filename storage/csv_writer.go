package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"housing-dashboard/models"
)

// CSVWriter exports a normalized table to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f}, nil
}

// Write writes the header and one line per respondent, replacing any previous content.
func (c *CSVWriter) Write(rows []*models.Respondent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.file.Truncate(0); err != nil {
		return fmt.Errorf("csv: truncate: %w", err)
	}
	if _, err := c.file.Seek(0, 0); err != nil {
		return fmt.Errorf("csv: seek: %w", err)
	}

	w := gocsv.NewSafeCSVWriter(csv.NewWriter(c.file))
	if err := gocsv.MarshalCSV(NewExportRows(rows), w); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"housing-dashboard/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadSurveyCSV loads every record of the survey CSV at path.
// Unknown columns are ignored and absent columns stay empty.
func ReadSurveyCSV(path string) ([]*models.RawSurvey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadSurvey(f)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	return rows, nil
}

// ReadSurvey decodes survey records from r.
func ReadSurvey(r io.Reader) ([]*models.RawSurvey, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([]*models.RawSurvey, 0)
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

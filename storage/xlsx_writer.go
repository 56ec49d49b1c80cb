package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"housing-dashboard/models"
)

const xlsxSheetName = "Respondents"

// XLSXWriter exports a normalized table to an Excel workbook.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter prepares a workbook at path. Intermediate directories are
// created automatically; the file is written by Write.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path}, nil
}

// Write renders the header (styled, frozen) and one row per respondent.
func (x *XLSXWriter) Write(rows []*models.Respondent) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("xlsx: create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx: create header style: %w", err)
	}

	sink := &sheetSink{file: f, sheet: xlsxSheetName, headerStyle: headerStyle}
	if err := gocsv.MarshalCSV(NewExportRows(rows), sink); err != nil {
		return fmt.Errorf("xlsx: write rows: %w", err)
	}

	if err := f.SetPanes(xlsxSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: freeze panes: %w", err)
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

// Close is a no-op; the workbook is closed by Write.
func (x *XLSXWriter) Close() error {
	return nil
}

// sheetSink adapts an excelize sheet to gocsv's CSVWriter so the export row
// layout is shared with the CSV exporter. Numeric cells are stored as numbers.
type sheetSink struct {
	file        *excelize.File
	sheet       string
	headerStyle int
	row         int
	err         error
}

func (s *sheetSink) Write(record []string) error {
	if s.err != nil {
		return s.err
	}
	s.row++

	values := make([]any, len(record))
	for i, v := range record {
		if n, err := strconv.ParseFloat(v, 64); err == nil && s.row > 1 {
			values[i] = n
		} else {
			values[i] = v
		}
	}

	start, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		s.err = err
		return err
	}
	if err := s.file.SetSheetRow(s.sheet, start, &values); err != nil {
		s.err = err
		return err
	}

	if s.row == 1 && len(record) > 0 {
		end, err := excelize.CoordinatesToCellName(len(record), 1)
		if err != nil {
			s.err = err
			return err
		}
		if err := s.file.SetCellStyle(s.sheet, start, end, s.headerStyle); err != nil {
			s.err = err
			return err
		}
	}
	return nil
}

func (s *sheetSink) Flush() {}

func (s *sheetSink) Error() error {
	return s.err
}

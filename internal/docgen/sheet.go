package docgen

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetReader reads a spreadsheet whose first row names the columns.
type SheetReader interface {
	ReadRecords(path string) ([]models.Record, error)
}

// XLSXReader reads the first worksheet of an Excel workbook.
type XLSXReader struct{}

// CSVReader reads a UTF-8 CSV file.
type CSVReader struct{}

// ReaderFor picks a reader by file extension.
func ReaderFor(path string) (SheetReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return XLSXReader{}, nil
	case ".csv":
		return CSVReader{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported spreadsheet type %q", models.ErrMalformedInput, filepath.Ext(path))
	}
}

func (XLSXReader) ReadRecords(path string) ([]models.Record, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: spreadsheet %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open workbook: %w", models.ErrMalformedInput, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", models.ErrMalformedInput)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", models.ErrMalformedInput, sheets[0], err)
	}

	return toRecords(rows)
}

func (CSVReader) ReadRecords(path string) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: spreadsheet %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open spreadsheet: %w", models.ErrIO, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse spreadsheet: %w", models.ErrMalformedInput, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return toRecords(rows)
}

// toRecords turns raw rows into records keyed by the header. Short rows are
// padded with empty strings and blank rows are skipped.
func toRecords(rows [][]string) ([]models.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no header row", models.ErrMalformedInput)
	}

	header := make([]string, len(rows[0]))
	for idx, name := range rows[0] {
		header[idx] = strings.TrimSpace(name)
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		values := make(map[string]string, len(header))
		for idx, column := range header {
			if column == "" {
				continue
			}
			if idx < len(row) {
				values[column] = row[idx]
			} else {
				values[column] = ""
			}
		}
		records = append(records, models.Record{Values: values})
	}

	return records, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

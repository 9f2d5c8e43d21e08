package jurisdiction

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/themis/internal/models"
)

var resultHeader = []string{"Address", "Court"}

// WriteResults encodes results as CSV with an Address,Court header.
func WriteResults(w io.Writer, results []models.MatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultHeader); err != nil {
		return fmt.Errorf("%w: failed to write header: %w", models.ErrIO, err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Address, result.Court}); err != nil {
			return fmt.Errorf("%w: failed to write result row: %w", models.ErrIO, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush results: %w", models.ErrIO, err)
	}

	return nil
}

// WriteResultsFile replaces the file at path with the encoded results. The
// data is written to a temporary file next to path and renamed into place, so
// path either keeps its previous content or holds the complete new output.
func WriteResultsFile(path string, results []models.MatchResult) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".themis-results-*.csv")
	if err != nil {
		return fmt.Errorf("%w: failed to create result file: %w", models.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err = WriteResults(tmp, results); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close result file: %w", models.ErrIO, err)
	}
	const mode = 0o644
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("%w: failed to set result file mode: %w", models.ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to move result file into place: %w", models.ErrIO, err)
	}

	return nil
}

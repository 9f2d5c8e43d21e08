package jurisdiction

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/UnknownOlympus/themis/internal/models"
)

// Header names of the mapping table.
const (
	DefaultCourtColumn  = "基层人民法院"
	DefaultRegionColumn = "管辖区域"
	courtAlias          = "court"
	regionAlias         = "region-list"
)

// regionSeparator splits a region-list cell. Commas are normalized to it first.
const regionSeparator = "、"

var separatorReplacer = strings.NewReplacer(",", regionSeparator, "，", regionSeparator)

// MappingLoader reads a court/region-list table into a DistrictCourtMap.
type MappingLoader struct {
	log           *slog.Logger
	courtColumns  []string
	regionColumns []string
}

// NewMappingLoader creates a loader looking for the given header names. Empty
// names fall back to the defaults; the "court" and "region-list" aliases are
// always accepted.
func NewMappingLoader(log *slog.Logger, courtColumn, regionColumn string) *MappingLoader {
	if courtColumn == "" {
		courtColumn = DefaultCourtColumn
	}
	if regionColumn == "" {
		regionColumn = DefaultRegionColumn
	}

	return &MappingLoader{
		log:           log,
		courtColumns:  []string{courtColumn, courtAlias},
		regionColumns: []string{regionColumn, regionAlias},
	}
}

// LoadFile opens path and loads the mapping from it.
func (ml *MappingLoader) LoadFile(ctx context.Context, path string) (models.DistrictCourtMap, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: mapping file %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open mapping file: %w", models.ErrIO, err)
	}
	defer file.Close()

	ml.log.DebugContext(ctx, "Loading district mapping", "path", path)

	return ml.Load(ctx, file)
}

// Load parses the mapping table from r. Every district token of a row's
// region-list cell is mapped to that row's court; a district listed twice
// keeps the court of its last occurrence.
func (ml *MappingLoader) Load(ctx context.Context, r io.Reader) (models.DistrictCourtMap, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: mapping file has no header row", models.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read mapping header: %w", models.ErrMalformedInput, err)
	}

	courtIdx := columnIndex(header, ml.courtColumns)
	if courtIdx < 0 {
		return nil, fmt.Errorf("%w: missing column %q", models.ErrMalformedInput, ml.courtColumns[0])
	}
	regionIdx := columnIndex(header, ml.regionColumns)
	if regionIdx < 0 {
		return nil, fmt.Errorf("%w: missing column %q", models.ErrMalformedInput, ml.regionColumns[0])
	}
	minFields := max(courtIdx, regionIdx) + 1

	districts := make(models.DistrictCourtMap)
	for line := 2; ; line++ {
		row, errRead := reader.Read()
		if errors.Is(errRead, io.EOF) {
			break
		}
		if errRead != nil {
			return nil, fmt.Errorf("%w: row %d: %w", models.ErrMalformedInput, line, errRead)
		}
		if isBlank(row) {
			continue
		}
		if len(row) < minFields {
			return nil, fmt.Errorf("%w: row %d has %d fields, want at least %d",
				models.ErrMalformedInput, line, len(row), minFields)
		}

		regions := SplitRegions(row[regionIdx])
		if len(regions) == 0 {
			continue
		}
		court := strings.TrimSpace(row[courtIdx])
		if court == "" {
			return nil, fmt.Errorf("%w: row %d has districts but no court", models.ErrMalformedInput, line)
		}

		for _, district := range regions {
			if prev, ok := districts[district]; ok && prev != court {
				ml.log.DebugContext(ctx, "District listed for more than one court, keeping the last",
					"district", district, "previous", prev, "court", court, "row", line)
			}
			districts[district] = court
		}
	}

	if err = checkFoldedNames(districts); err != nil {
		return nil, err
	}

	ml.log.InfoContext(ctx, "District mapping loaded", "districts", len(districts))

	return districts, nil
}

// checkFoldedNames rejects districts that differ only in character width but
// belong to different courts; the matcher cannot tell them apart.
func checkFoldedNames(districts models.DistrictCourtMap) error {
	names := slices.Sorted(maps.Keys(districts))
	seen := make(map[string]string, len(names))
	for _, district := range names {
		key := foldWidth(district)
		if prev, ok := seen[key]; ok && districts[prev] != districts[district] {
			return fmt.Errorf("%w: districts %q and %q are the same name but map to %q and %q",
				models.ErrMalformedInput, prev, district, districts[prev], districts[district])
		}
		seen[key] = district
	}

	return nil
}

// SplitRegions turns a region-list cell into trimmed, non-empty district names.
func SplitRegions(cell string) []string {
	cell = strings.Trim(strings.TrimSpace(cell), `"'`)
	cell = separatorReplacer.Replace(cell)

	var regions []string
	for _, token := range strings.Split(cell, regionSeparator) {
		if token = strings.TrimSpace(token); token != "" {
			regions = append(regions, token)
		}
	}

	return regions
}

func columnIndex(header []string, names []string) int {
	for _, name := range names {
		for idx, cell := range header {
			if strings.TrimSpace(cell) == name {
				return idx
			}
		}
	}
	return -1
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

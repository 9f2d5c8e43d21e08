package docgen

import (
	"fmt"
	"strings"

	"github.com/UnknownOlympus/themis/internal/models"
)

// DefaultFilenameColumn is the spreadsheet column naming the output document.
const DefaultFilenameColumn = "文件名"

var unsafeName = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
)

// OutputName returns the file name for the document of record. The value of
// column is used when present and non-blank, otherwise output_<index>.
func OutputName(record models.Record, index int, column string) string {
	if column == "" {
		column = DefaultFilenameColumn
	}

	base := strings.TrimSpace(record.Get(column))
	base = strings.Trim(unsafeName.Replace(base), ". ")
	if base == "" {
		base = fmt.Sprintf("output_%d", index)
	}

	return base + ".docx"
}

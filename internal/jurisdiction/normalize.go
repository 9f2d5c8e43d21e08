package jurisdiction

import (
	"io"

	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// stripBOM wraps r so that a leading UTF-8 byte order mark, as written by
// spreadsheet applications on export, is dropped.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, xunicode.BOMOverride(encoding.Nop.NewDecoder()))
}

// foldWidth maps full-width latin letters, digits and punctuation to their
// narrow forms. CJK ideographs are left untouched.
func foldWidth(s string) string {
	return width.Fold.String(s)
}

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/bmatcuk/doublestar/v4"
)

var wordExtensions = []string{".doc", ".docx"}

// IsWordDocument reports whether path has a .doc or .docx extension.
func IsWordDocument(path string) bool {
	return slices.Contains(wordExtensions, strings.ToLower(filepath.Ext(path)))
}

// ExpandInputs resolves files, directories (searched recursively) and glob
// patterns into a sorted, de-duplicated list of Word documents.
func ExpandInputs(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve %s: %w", models.ErrIO, path, err)
		}
		if _, ok := seen[abs]; !ok {
			seen[abs] = struct{}{}
			files = append(files, abs)
		}
		return nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			// Rooting the walk at arg keeps glob metacharacters in its name literal.
			matches, errGlob := doublestar.Glob(os.DirFS(arg), "**/*", doublestar.WithFilesOnly())
			if errGlob != nil {
				return nil, fmt.Errorf("%w: failed to walk %s: %w", models.ErrIO, arg, errGlob)
			}
			for _, match := range matches {
				if IsWordDocument(match) {
					if err = add(filepath.Join(arg, filepath.FromSlash(match))); err != nil {
						return nil, err
					}
				}
			}
		case err == nil:
			if !IsWordDocument(arg) {
				return nil, fmt.Errorf("%w: %s is not a .doc or .docx file", models.ErrMalformedInput, arg)
			}
			if err = add(arg); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
			matches, errGlob := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if errGlob != nil {
				return nil, fmt.Errorf("%w: bad pattern %q: %w", models.ErrMalformedInput, arg, errGlob)
			}
			matched := false
			for _, match := range matches {
				if IsWordDocument(match) {
					matched = true
					if err = add(match); err != nil {
						return nil, err
					}
				}
			}
			if !matched {
				return nil, fmt.Errorf("%w: no Word documents match %s", models.ErrFileNotFound, arg)
			}
		default:
			return nil, fmt.Errorf("%w: failed to inspect %s: %w", models.ErrIO, arg, err)
		}
	}

	slices.Sort(files)

	return files, nil
}

// Package service runs the user-facing pipelines: jurisdiction matching,
// document generation and PDF conversion. Each Run call reports to a
// progress.Observer and returns a summary, or the first error that stopped it.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/UnknownOlympus/themis/internal/models"
)

// requireFile checks that path names an existing regular file.
func requireFile(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", models.ErrFileNotFound, what, path)
		}
		return fmt.Errorf("%w: failed to inspect %s %s: %w", models.ErrIO, what, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", models.ErrFileNotFound, what, path)
	}

	return nil
}

// requireDir checks that path names an existing directory.
func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", models.ErrFileNotFound, what, path)
		}
		return fmt.Errorf("%w: failed to inspect %s %s: %w", models.ErrIO, what, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s %s is not a directory", models.ErrFileNotFound, what, path)
	}

	return nil
}

package models

import "errors"

// Error taxonomy shared by every pipeline. Callers wrap these with context
// and test for them with errors.Is.
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrMalformedInput  = errors.New("malformed input")
	ErrIO              = errors.New("i/o failure")
	ErrExternalProcess = errors.New("external process failure")
)

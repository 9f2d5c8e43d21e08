package models

import "time"

// ConversionResult describes the outcome of converting one source document.
type ConversionResult struct {
	Source   string        // Source is the absolute path of the input document.
	Output   string        // Output is the produced PDF path, empty on failure.
	Attempts int           // Attempts is the number of converter invocations made.
	Duration time.Duration // Duration covers all attempts.
	Err      error         // Err is nil on success.
}

// OK reports whether the conversion produced a PDF.
func (r ConversionResult) OK() bool {
	return r.Err == nil
}

package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/cenkalti/backoff/v4"
)

// Options bound every conversion.
type Options struct {
	Timeout    time.Duration // Timeout applies to each converter invocation.
	Retries    int           // Retries is the number of extra attempts after a failure.
	RetryDelay time.Duration // RetryDelay is the first backoff interval.
}

// Converter turns Word documents into PDF with a headless office suite.
type Converter struct {
	executable string
	runner     Runner
	opts       Options
	log        *slog.Logger
}

// NewConverter creates a converter invoking executable through runner.
func NewConverter(executable string, runner Runner, opts Options, log *slog.Logger) *Converter {
	return &Converter{executable: executable, runner: runner, opts: opts, log: log}
}

// Convert writes <outDir>/<base name of src>.pdf. A failed attempt is retried
// with exponential backoff; the returned result carries the last failure.
func (c *Converter) Convert(ctx context.Context, src, outDir string) models.ConversionResult {
	start := time.Now()
	result := models.ConversionResult{Source: src}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		result.Err = fmt.Errorf("%w: failed to resolve %s: %w", models.ErrIO, src, err)
		return result
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		result.Err = fmt.Errorf("%w: failed to resolve %s: %w", models.ErrIO, outDir, err)
		return result
	}
	result.Source = absSrc
	expected := filepath.Join(absOut, strings.TrimSuffix(filepath.Base(absSrc), filepath.Ext(absSrc))+".pdf")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryDelay
	policy.MaxElapsedTime = 0
	retries := uint64(max(c.opts.Retries, 0))

	err = backoff.Retry(func() error {
		result.Attempts++
		errAttempt := c.attempt(ctx, absSrc, absOut, expected)
		if errAttempt == nil {
			return nil
		}

		c.log.WarnContext(ctx, "Conversion attempt failed",
			"file", filepath.Base(absSrc), "attempt", result.Attempts, "error", errAttempt)
		if ctx.Err() != nil {
			return backoff.Permanent(errAttempt)
		}
		return errAttempt
	}, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))

	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}

	result.Output = expected
	return result
}

func (c *Converter) attempt(ctx context.Context, src, outDir, expected string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	// A PDF left by an earlier run must not pass for this attempt's output.
	if err := os.Remove(expected); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove stale %s: %w", models.ErrIO, expected, err)
	}

	args := []string{"--headless", "--convert-to", "pdf", src, "--outdir", outDir}
	c.log.DebugContext(ctx, "Running converter", "executable", c.executable, "args", args)

	output, err := c.runner.Run(attemptCtx, c.executable, args...)
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: conversion of %s timed out after %s",
			models.ErrExternalProcess, filepath.Base(src), c.opts.Timeout)
	}
	if err != nil {
		return fmt.Errorf("%w: converter failed: %w: %s",
			models.ErrExternalProcess, err, strings.TrimSpace(string(output)))
	}

	if _, err = os.Stat(expected); err != nil {
		return fmt.Errorf("%w: PDF not produced: %s", models.ErrExternalProcess, expected)
	}

	return nil
}

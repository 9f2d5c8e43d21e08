// Package incident is the error-reporting boundary of every user-triggered
// action: it turns failures and panics into an entry of the incident log and
// a message fit for display.
package incident

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// LogFileName is the file the reporter appends to inside its log directory.
const LogFileName = "error.log"

// DisplayError carries a message ready to be shown to the user and the
// failure it was derived from.
type DisplayError struct {
	Action  string
	Message string
	Err     error
}

func (e *DisplayError) Error() string {
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// Reporter writes incidents to a log file and mirrors them to a logger.
type Reporter struct {
	log  *slog.Logger
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewReporter creates a reporter appending to <logDir>/error.log.
func NewReporter(log *slog.Logger, logDir string) *Reporter {
	return &Reporter{log: log, path: filepath.Join(logDir, LogFileName), now: time.Now}
}

// Path returns the incident log location.
func (r *Reporter) Path() string {
	return r.path
}

// Guard runs fn as the user action named action. A returned error or a panic
// is recorded in the incident log and comes back as a *DisplayError.
func (r *Reporter) Guard(ctx context.Context, action string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = r.report(ctx, action, fmt.Errorf("panic: %v", recovered), debug.Stack())
		}
	}()

	if errRun := fn(ctx); errRun != nil {
		return r.report(ctx, action, errRun, debug.Stack())
	}

	return nil
}

func (r *Reporter) report(ctx context.Context, action string, cause error, stack []byte) error {
	var display *DisplayError
	if errors.As(cause, &display) {
		return display
	}

	r.log.ErrorContext(ctx, "Action failed", "action", action, "error", cause)

	if errWrite := r.append(action, cause, stack); errWrite != nil {
		r.log.ErrorContext(ctx, "Failed to write incident log", "path", r.path, "error", errWrite)
	}

	return &DisplayError{
		Action:  action,
		Message: fmt.Sprintf("操作过程中发生错误: %v", cause),
		Err:     cause,
	}
}

func (r *Reporter) append(action string, cause error, stack []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	const dirMode, fileMode = 0o755, 0o644
	if err := os.MkdirAll(filepath.Dir(r.path), dirMode); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("failed to open incident log: %w", err)
	}
	defer file.Close()

	return writeEntry(file, r.now(), action, cause, stack)
}

func writeEntry(w io.Writer, at time.Time, action string, cause error, stack []byte) error {
	_, err := fmt.Fprintf(w,
		"--- Incident: %s ---\nTime: %s\nSystem: %s/%s\nGo: %s\nError: %v\nStack:\n%s\n\n",
		action,
		at.Format(time.RFC3339),
		runtime.GOOS, runtime.GOARCH,
		runtime.Version(),
		cause,
		stack,
	)
	if err != nil {
		return fmt.Errorf("failed to write incident entry: %w", err)
	}

	return nil
}

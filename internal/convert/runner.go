package convert

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultWaitDelay is how long a killed office process may hold its pipes open.
const DefaultWaitDelay = 5 * time.Second

// ExecRunner runs commands with os/exec. The process is killed when ctx is
// done; WaitDelay bounds how long Run then waits for its output pipes.
type ExecRunner struct {
	WaitDelay time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var output bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = r.WaitDelay

	err := cmd.Run()

	return output.Bytes(), err
}

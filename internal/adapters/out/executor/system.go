// Package executor implements the CommandExecutor port with os/exec.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/bnema/zerowrap"
)

// DefaultTimeout bounds external commands so a stuck helper cannot hang a
// mutation cycle.
const DefaultTimeout = 10 * time.Second

// System runs external commands with a bounded timeout.
type System struct {
	timeout time.Duration
	log     zerowrap.Logger
}

// New creates a system executor. A non-positive timeout falls back to
// DefaultTimeout.
func New(timeout time.Duration, log zerowrap.Logger) *System {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &System{timeout: timeout, log: log}
}

// Run executes the command and returns its combined output.
func (s *System) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(output), fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
		}
		return string(output), fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return string(output), nil
}

// LookPath reports the absolute path of an executable.
func (s *System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

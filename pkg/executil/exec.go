// Package executil provides process execution utilities.
package executil

import (
	"context"
	"os/exec"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// Start launches a command fire-and-forget: the process is detached
	// and never waited on. Only launch failures are reported.
	Start(ctx context.Context, cmd string, args ...string) error
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, cmd, args...).CombinedOutput()
}

// Start launches a command without waiting for it. The process handle is
// released so the child is reparented rather than left as a zombie.
func (e *RealExecutor) Start(ctx context.Context, cmd string, args ...string) error {
	c := exec.CommandContext(ctx, cmd, args...)
	if err := c.Start(); err != nil {
		return err
	}
	return c.Process.Release()
}

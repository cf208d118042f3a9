package adb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner invokes the adb binary. All device operations go through it,
// so tests substitute the CommandRunner interface instead of a device.
type Runner struct {
	// path is the adb executable, resolved via PATH when bare.
	path string
	// serial selects a device with `-s` when several are attached.
	serial string
}

// CommandRunner abstracts adb invocation for the device layer.
type CommandRunner interface {
	Output(ctx context.Context, args ...string) (string, error)
	Run(ctx context.Context, args ...string) error
}

// NewRunner creates a Runner for the given adb executable and optional
// device serial.
func NewRunner(path, serial string) *Runner {
	return &Runner{
		path:   path,
		serial: serial,
	}
}

// Output executes an adb command and returns its trimmed stdout.
// Stderr is folded into the error so failures are diagnosable in logs.
func (r *Runner) Output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.path, r.expand(args)...) //nolint:gosec // adb path comes from trusted config.

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("adb %s: %w: %s",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}

		return "", fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(string(out)), nil
}

// Run executes an adb command, discarding output.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	_, err := r.Output(ctx, args...)

	return err
}

// expand prepends the `-s serial` selector when configured.
func (r *Runner) expand(args []string) []string {
	if r.serial == "" {
		return args
	}

	return append([]string{"-s", r.serial}, args...)
}

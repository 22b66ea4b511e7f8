// SPDX-License-Identifier: Apache-2.0
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// StageError reports an external command that exited with failure. The
// remaining pipeline is aborted and the workspace preserved when one is
// returned.
type StageError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage command %q failed with exit code %d", formatCommand(e.Name, e.Args), e.ExitCode)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Runner executes the ordered sequence of external commands for one build.
// In dry-run mode every command is reported to Out but never invoked, so a
// dry run is a side-effect-free preview of exactly what a real run would
// execute. In real mode each command runs synchronously and a non-zero
// exit is surfaced as a *StageError.
type Runner struct {
	DryRun bool
	Out    io.Writer // command transcript; defaults to os.Stdout
	Stdout io.Writer // child process stdout; defaults to os.Stdout
	Stderr io.Writer // child process stderr; defaults to os.Stderr
}

// New returns a Runner for the given mode writing to stdout/stderr.
func New(dryRun bool) *Runner {
	return &Runner{DryRun: dryRun}
}

// Run reports or executes a single command. Blocks until the external
// process terminates; stages never overlap or run out of order.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	if r.DryRun {
		fmt.Fprintf(out, "[dry-run] $ %s\n", formatCommand(name, args))
		return nil
	}

	fmt.Fprintf(out, "$ %s\n", formatCommand(name, args))
	log.Debugf("Running command: %s", formatCommand(name, args))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &StageError{Name: name, Args: args, ExitCode: exitCode, Err: err}
	}

	return nil
}

func formatCommand(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

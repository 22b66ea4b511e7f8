// SPDX-License-Identifier: Apache-2.0
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunner_DryRunReportsWithoutExecuting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "never-created")

	var out bytes.Buffer
	r := &Runner{DryRun: true, Out: &out}

	if err := r.Run(context.Background(), "touch", target); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("Dry run executed the command")
	}

	want := "[dry-run] $ touch " + target + "\n"
	if out.String() != want {
		t.Errorf("Transcript = %q, want %q", out.String(), want)
	}
}

func TestRunner_DryRunTranscriptDeterministic(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		r := &Runner{DryRun: true, Out: &out}
		ctx := context.Background()
		r.Run(ctx, "qemu-img", "create", "-f", "qcow2", "/tmp/x.img", "32G")
		r.Run(ctx, "virt-resize", "--expand", "/dev/sda1", "/tmp/base.img", "/tmp/x.img")
		r.Run(ctx, "rm", "-rf", "/tmp/work")
		return out.String()
	}

	first := run()
	second := run()
	if first != second {
		t.Errorf("Dry-run transcripts differ:\n%s\n---\n%s", first, second)
	}
}

func TestRunner_RealRunExecutes(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "created")

	var out bytes.Buffer
	r := &Runner{DryRun: false, Out: &out, Stdout: &out, Stderr: &out}

	if err := r.Run(context.Background(), "touch", target); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(target); err != nil {
		t.Errorf("Command did not run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "$ touch ") {
		t.Errorf("Transcript missing command echo: %q", out.String())
	}
}

func TestRunner_FailureBecomesStageError(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Out: &out, Stdout: &out, Stderr: &out}

	err := r.Run(context.Background(), "false")
	if err == nil {
		t.Fatal("Expected error for failing command")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("Expected *StageError, got %T: %v", err, err)
	}
	if stageErr.Name != "false" {
		t.Errorf("StageError.Name = %q", stageErr.Name)
	}
	if stageErr.ExitCode == 0 {
		t.Errorf("StageError.ExitCode = %d, want non-zero", stageErr.ExitCode)
	}
}

func TestRunner_MissingBinaryBecomesStageError(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Out: &out, Stdout: &out, Stderr: &out}

	err := r.Run(context.Background(), "bellows-no-such-binary-xyzzy")
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("Expected *StageError, got %T: %v", err, err)
	}
	if stageErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for unstartable command", stageErr.ExitCode)
	}
}

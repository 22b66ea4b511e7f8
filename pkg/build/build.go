// SPDX-License-Identifier: Apache-2.0

// Package build orchestrates one image build: catalog resolution,
// pipeline assembly, workspace lifecycle and the external command
// sequence that produces the final artifact.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/Work-Fort/Bellows/pkg/catalog"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/Work-Fort/Bellows/pkg/pipeline"
	"github.com/Work-Fort/Bellows/pkg/util"
	"github.com/Work-Fort/Bellows/pkg/workspace"
)

// Options configures a single build run.
type Options struct {
	Settings *config.Settings
	OSTag    string
	Chosen   []string // ordered customization script names
	DryRun   bool
	XZ       bool      // additionally xz-compress the published artifact
	Now      time.Time // run time; zero value means time.Now()
	Out      io.Writer // command transcript; defaults to os.Stdout
}

// Result describes a completed build.
type Result struct {
	Identity     string
	Pipeline     pipeline.Pipeline
	Workspace    *workspace.Workspace
	ArtifactPath string
}

// Plan resolves the catalog and assembles the pipeline without touching
// the filesystem beyond reading the script directory. It fails before any
// workspace exists when an anchor script is missing.
func Plan(s *config.Settings, osTag string, chosen []string) (*catalog.Catalog, pipeline.Pipeline, error) {
	cat, err := catalog.Resolve(s.ScriptDir, osTag)
	if err != nil {
		return nil, pipeline.Pipeline{}, err
	}

	if err := validateChosen(cat, chosen); err != nil {
		return nil, pipeline.Pipeline{}, err
	}

	return cat, pipeline.Assemble(cat, chosen), nil
}

func validateChosen(cat *catalog.Catalog, chosen []string) error {
	available := make(map[string]bool, len(cat.Optional))
	for _, name := range cat.Optional {
		available[name] = true
	}

	seen := make(map[string]bool, len(chosen))
	for _, name := range chosen {
		if !available[name] {
			return fmt.Errorf("unknown customization script %q for OS %s", name, cat.OSTag)
		}
		if seen[name] {
			return fmt.Errorf("customization script %q selected twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Run executes the full build pipeline. Stages run strictly in order and
// each blocks until its external command terminates. On stage failure the
// remaining pipeline is aborted and the workspace is preserved for
// inspection; cleanup only happens after the artifact is published.
func Run(ctx context.Context, opts Options) (*Result, error) {
	s := opts.Settings

	cat, p, err := Plan(s, opts.OSTag, opts.Chosen)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	timestamp := pipeline.Timestamp(now)
	identity := pipeline.Identity(opts.OSTag, opts.Chosen, timestamp)

	ws := workspace.New(s.WorkdirBase, identity)
	if !opts.DryRun {
		if err := ws.Create(s.DownloadDir, s.OutputDir); err != nil {
			return nil, err
		}
	}

	runner := pipeline.New(opts.DryRun)
	runner.Out = opts.Out

	result := &Result{
		Identity:     identity,
		Pipeline:     p,
		Workspace:    ws,
		ArtifactPath: filepath.Join(s.OutputDir, identity+".img"),
	}

	if err := runStages(ctx, runner, s, cat, p, ws, result); err != nil {
		log.Warnf("Build aborted, workspace preserved at %s", ws.Root)
		return result, err
	}

	if opts.XZ && !opts.DryRun {
		if err := util.CompressXZ(result.ArtifactPath, result.ArtifactPath+".xz"); err != nil {
			return result, fmt.Errorf("failed to xz-compress artifact: %w", err)
		}
	}

	return result, nil
}

func runStages(ctx context.Context, runner *pipeline.Runner, s *config.Settings, cat *catalog.Catalog, p pipeline.Pipeline, ws *workspace.Workspace, result *Result) error {
	// Acquire the base image unless a file of the expected name is already
	// cached. The cache is keyed by filename only.
	basePath, err := s.BaseImagePath(cat.OSTag)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(basePath); statErr == nil {
		log.Infof("Using existing image: %s", basePath)
	} else {
		url, err := s.BaseImageURL(cat.OSTag)
		if err != nil {
			return err
		}
		if err := runner.Run(ctx, s.Downloader, url, "-o", basePath); err != nil {
			return err
		}
	}

	if err := runner.Run(ctx, "qemu-img", "create", "-f", "qcow2", ws.ImagePath, s.ImageSize); err != nil {
		return err
	}

	if err := runner.Run(ctx, "virt-resize", "--expand", "/dev/sda1", basePath, ws.ImagePath); err != nil {
		return err
	}

	// All stages are applied in one customize invocation, in pipeline order
	customizeArgs := []string{"-a", ws.ImagePath}
	for _, stage := range p.Stages {
		customizeArgs = append(customizeArgs, "--commands-from-file", cat.ScriptPath(stage))
	}
	if err := runner.Run(ctx, "virt-customize", customizeArgs...); err != nil {
		return err
	}

	if err := runner.Run(ctx, "virt-sparsify", "--compress", "--tmp", s.WorkdirBase, ws.ImagePath, ws.CompressedPath); err != nil {
		return err
	}

	if err := runner.Run(ctx, "cp", ws.CompressedPath, result.ArtifactPath); err != nil {
		return err
	}

	return runner.Run(ctx, "rm", "-rf", ws.Root)
}

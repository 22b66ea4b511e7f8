// SPDX-License-Identifier: Apache-2.0
package build

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/Work-Fort/Bellows/pkg/build"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/Work-Fort/Bellows/pkg/tools"
	"github.com/Work-Fort/Bellows/pkg/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var (
		dryRun  bool
		yes     bool
		xz      bool
		osTag   string
		scripts []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a customized qcow2 image",
		Long: `Build a customized qcow2 image for a target OS.

Without flags the target OS and the customization stages are picked
interactively; the order you toggle stages in is the order they are
applied. With --os (and optionally --scripts) the build runs without
prompts. --dry-run prints every external command instead of running it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(osTag, scripts, dryRun, yes, xz)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the commands that would run without executing them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&xz, "xz", false, "Also xz-compress the published artifact")
	cmd.Flags().StringVarP(&osTag, "os", "o", "", "Target OS tag (skips interactive selection)")
	cmd.Flags().StringSliceVarP(&scripts, "scripts", "s", nil, "Ordered customization scripts to apply")

	return cmd
}

// isInteractive checks if stdin is connected to a terminal
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runBuild(osTag string, scripts []string, dryRun, yes, xz bool) error {
	settings := config.Load()

	interactive := isInteractive()

	if osTag == "" {
		if !interactive {
			return fmt.Errorf("--os is required when stdin is not a terminal")
		}
		selected, err := ui.RunSelect("Select target OS:", settings.Tags())
		if err != nil {
			return err
		}
		osTag = selected
	}
	if _, err := settings.BaseImageURL(osTag); err != nil {
		return err
	}

	// Resolve the catalog up front so a missing anchor aborts before any
	// selection or workspace work happens.
	cat, _, err := build.Plan(settings, osTag, nil)
	if err != nil {
		return err
	}

	chosen := scripts
	if len(chosen) == 0 && interactive && len(cat.Optional) > 0 {
		chosen, err = ui.RunMultiSelect("Choose customization stages (applied in selection order):", cat.Optional)
		if err != nil {
			return err
		}
	}

	if !dryRun && !yes && interactive {
		prompt := fmt.Sprintf("Build %s image with stages [base %s clean]?", osTag, strings.Join(chosen, " "))
		if len(chosen) == 0 {
			prompt = fmt.Sprintf("Build %s image with stages [base clean]?", osTag)
		}
		confirmed, err := ui.Confirm(prompt)
		if err != nil {
			return err
		}
		if !confirmed {
			return ui.ErrSelectionAborted
		}
	}

	if !dryRun {
		basePath, err := settings.BaseImagePath(osTag)
		if err != nil {
			return err
		}
		needDownloader := true
		if _, statErr := os.Stat(basePath); statErr == nil {
			needDownloader = false
		}
		if err := tools.Check(settings.Downloader, needDownloader); err != nil {
			return err
		}
	}

	log.Infof("Building %s image, stages: %v, dry-run: %v", osTag, chosen, dryRun)

	result, err := build.Run(context.Background(), build.Options{
		Settings: settings,
		OSTag:    osTag,
		Chosen:   chosen,
		DryRun:   dryRun,
		XZ:       xz,
	})
	if err != nil {
		if result != nil && result.Workspace != nil {
			return fmt.Errorf("%w (workspace preserved at %s)", err, result.Workspace.Root)
		}
		return err
	}

	theme := config.CurrentTheme
	fmt.Println()
	if dryRun {
		fmt.Println(theme.InfoMessage(fmt.Sprintf("Dry run complete, would publish to: %s", result.ArtifactPath)))
	} else {
		fmt.Println(theme.SuccessMessage(fmt.Sprintf("Final image ready at: %s", result.ArtifactPath)))
	}

	return nil
}

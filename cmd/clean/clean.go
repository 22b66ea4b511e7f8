// SPDX-License-Identifier: Apache-2.0
package clean

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/Work-Fort/Bellows/pkg/ui"
	"github.com/spf13/cobra"
)

// NewCleanCmd creates the clean command and its subcommands
func NewCleanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean bellows data",
		Long:  `Remove cached base images and stale build workspaces.`,
	}

	downloadsCmd := &cobra.Command{
		Use:   "downloads",
		Short: "Remove cached base images",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cleanDownloads(config.Load(), force)
		},
	}
	downloadsCmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	workspacesCmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Remove leftover build workspaces",
		Long: `Remove workspaces left behind by failed builds. Successful builds
clean up after themselves; anything under the scratch root is leftovers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cleanWorkspaces(config.Load())
		},
	}

	cmd.AddCommand(downloadsCmd)
	cmd.AddCommand(workspacesCmd)

	return cmd
}

func cleanDownloads(settings *config.Settings, force bool) error {
	theme := config.CurrentTheme

	entries, err := os.ReadDir(settings.DownloadDir)
	if os.IsNotExist(err) || (err == nil && len(entries) == 0) {
		fmt.Println(theme.InfoMessage("Download cache is empty"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read download directory: %w", err)
	}

	if !force {
		confirmed, err := ui.Confirm(fmt.Sprintf("Remove %d cached file(s) from %s?", len(entries), settings.DownloadDir))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(theme.InfoMessage("Nothing removed"))
			return nil
		}
	}

	var removed int
	for _, entry := range entries {
		path := filepath.Join(settings.DownloadDir, entry.Name())
		log.Debugf("Removing cached file %s", path)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}

	fmt.Println(theme.SuccessMessage(fmt.Sprintf("Removed %d cached file(s)", removed)))
	return nil
}

func cleanWorkspaces(settings *config.Settings) error {
	theme := config.CurrentTheme

	entries, err := os.ReadDir(settings.WorkdirBase)
	if os.IsNotExist(err) || (err == nil && len(entries) == 0) {
		fmt.Println(theme.InfoMessage("No leftover workspaces"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read scratch root: %w", err)
	}

	var removed int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(settings.WorkdirBase, entry.Name())
		log.Debugf("Removing workspace %s", path)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		fmt.Println(theme.SubtleStyle().Render("  removed " + path))
		removed++
	}

	fmt.Println(theme.SuccessMessage(fmt.Sprintf("Removed %d workspace(s)", removed)))
	return nil
}

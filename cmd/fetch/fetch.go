// SPDX-License-Identifier: Apache-2.0
package fetch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/Work-Fort/Bellows/pkg/download"
	"github.com/Work-Fort/Bellows/pkg/ui"
	"github.com/Work-Fort/Bellows/pkg/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewFetchCmd creates the fetch command
func NewFetchCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch [os-tag]",
		Short: "Pre-download a base cloud image into the cache",
		Long: `Download the base cloud image for an OS tag into the shared download
cache, with a progress bar, and record its SHA-256 digest alongside.
Builds reuse the cached file instead of downloading again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load()

			var osTag string
			if len(args) == 1 {
				osTag = args[0]
			} else {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("an OS tag argument is required when stdin is not a terminal")
				}
				selected, err := ui.RunSelect("Select base image to fetch:", settings.Tags())
				if err != nil {
					return err
				}
				osTag = selected
			}

			return runFetch(settings, osTag, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-download even if the image is already cached")

	return cmd
}

func runFetch(settings *config.Settings, osTag string, force bool) error {
	url, err := settings.BaseImageURL(osTag)
	if err != nil {
		return err
	}
	dest, err := settings.BaseImagePath(osTag)
	if err != nil {
		return err
	}

	theme := config.CurrentTheme

	if _, err := os.Stat(dest); err == nil && !force {
		fmt.Println(theme.InfoMessage(fmt.Sprintf("Already cached: %s", dest)))
		return nil
	}

	if err := os.MkdirAll(settings.DownloadDir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	log.Infof("Fetching %s from %s", osTag, url)
	title := fmt.Sprintf("Downloading %s", filepath.Base(dest))
	err = ui.RunDownload(title, func(progressFn func(float64)) error {
		return download.File(url, dest, progressFn)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", osTag, err)
	}

	if err := util.RecordSHA256(dest); err != nil {
		return fmt.Errorf("failed to record checksum: %w", err)
	}

	fmt.Println(theme.SuccessMessage(fmt.Sprintf("Cached %s at %s", osTag, dest)))
	return nil
}

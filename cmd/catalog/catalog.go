// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"errors"
	"fmt"

	"github.com/Work-Fort/Bellows/pkg/catalog"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [os-tag]",
		Short: "Show the customization script catalog",
		Long: `Show the anchor and optional customization scripts resolved for an
OS tag, or for every configured OS when no tag is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load()

			tags := settings.Tags()
			if len(args) == 1 {
				tags = args[:1]
			}

			theme := config.CurrentTheme
			for _, tag := range tags {
				cat, err := catalog.Resolve(settings.ScriptDir, tag)
				if err != nil {
					var missingErr *catalog.MissingAnchorError
					if errors.As(err, &missingErr) && len(args) == 0 {
						// Listing all: report and keep going
						fmt.Printf("%s\n", theme.WarningMessage(fmt.Sprintf("%s: %v", tag, err)))
						continue
					}
					return err
				}

				fmt.Printf("%s\n", theme.InfoStyle().Bold(true).Render(tag))
				fmt.Printf("  base   %s\n", cat.Base)
				fmt.Printf("  clean  %s\n", cat.Clean)
				if len(cat.Optional) == 0 {
					fmt.Printf("  %s\n", theme.SubtleStyle().Render("(no optional scripts)"))
				}
				for _, name := range cat.Optional {
					fmt.Printf("  %s\n", cat.ScriptPath(name))
				}
				fmt.Println()
			}

			return nil
		},
	}
}

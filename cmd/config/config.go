// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"
	"sort"

	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect bellows configuration",
		Long: `Inspect the effective configuration after merging defaults, the user
config file, the local bellows.yaml and environment variables.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all effective configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := viper.AllKeys()
			sort.Strings(keys)

			theme := config.CurrentTheme
			for _, key := range keys {
				fmt.Printf("%s %v\n", theme.InfoStyle().Render(key+":"), viper.Get(key))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print a single configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !viper.IsSet(args[0]) {
				return fmt.Errorf("unknown configuration key %q", args[0])
			}
			fmt.Printf("%v\n", viper.Get(args[0]))
			return nil
		},
	})

	return cmd
}

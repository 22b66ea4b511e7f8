// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	buildcmd "github.com/Work-Fort/Bellows/cmd/build"
	catalogcmd "github.com/Work-Fort/Bellows/cmd/catalog"
	"github.com/Work-Fort/Bellows/cmd/clean"
	configCmd "github.com/Work-Fort/Bellows/cmd/config"
	"github.com/Work-Fort/Bellows/cmd/fetch"
	"github.com/Work-Fort/Bellows/cmd/version"
	"github.com/Work-Fort/Bellows/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time via ldflags
	// -ldflags "-X github.com/Work-Fort/Bellows/cmd.Version=x.y.z"
	Version string

	logLevel    string
	debugLogger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bellows",
	Short: "Interactive qcow2 image builder",
	Long: `Bellows - Interactive qcow2 image builder

Forge customized VM disk images by chaining the qemu/libguestfs tools.
Pick a target OS, choose customization script stages in the order they
should apply, and Bellows downloads, resizes, customizes, sparsifies and
publishes the image. A --dry-run mode previews every external command
without side effects.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize directories before any command runs
		if err := config.InitDirs(); err != nil {
			return err
		}

		// Load config files now that directories exist
		if err := config.LoadConfig(); err != nil {
			return err
		}

		// Handle disabled logging first
		if logLevel == "disabled" {
			log.SetOutput(io.Discard)
			return nil
		}

		// Configure log level from flag
		var level log.Level
		switch logLevel {
		case "debug":
			level = log.DebugLevel
		case "info":
			level = log.InfoLevel
		case "warn":
			level = log.WarnLevel
		case "error":
			level = log.ErrorLevel
		default:
			level = log.WarnLevel
		}

		// Always log to file in JSON format
		logFile := filepath.Join(config.GlobalPaths.DataDir, "debug.log")
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		debugLogger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
			Level:           level,
			ReportCaller:    true,
			Formatter:       log.JSONFormatter,
		})

		log.SetDefault(debugLogger)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		theme := config.CurrentTheme
		errorStyle := theme.ErrorStyle()
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), err.Error())
		os.Exit(1)
	}
}

func init() {
	// Configure logging - will be redirected to file in PersistentPreRunE
	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)

	// Initialize Viper configuration
	config.InitViper()

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "Log level: disabled, debug, info, warn, error")

	// Bind flags to Viper for config file and environment variable support
	config.BindFlags(rootCmd.PersistentFlags())

	// Add subcommands using factory functions
	rootCmd.AddCommand(buildcmd.NewBuildCmd())
	rootCmd.AddCommand(catalogcmd.NewCatalogCmd())
	rootCmd.AddCommand(clean.NewCleanCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())
	rootCmd.AddCommand(fetch.NewFetchCmd())
	rootCmd.AddCommand(version.NewVersionCmd(Version))

	// Set custom help, usage, and error functions
	rootCmd.SetHelpFunc(styledHelpFunc)
	rootCmd.SetUsageFunc(styledUsageFunc)
	rootCmd.SilenceUsage = true  // Don't show usage on errors
	rootCmd.SilenceErrors = true // We'll handle error printing ourselves
}

// styledHelpFunc renders help output as markdown through glamour
func styledHelpFunc(cmd *cobra.Command, args []string) {
	renderMarkdown(generateHelpMarkdown(cmd))
}

// styledUsageFunc renders usage output as markdown through glamour
func styledUsageFunc(cmd *cobra.Command) error {
	renderMarkdown(generateUsageMarkdown(cmd))
	return nil
}

// generateHelpMarkdown creates markdown for the help output
func generateHelpMarkdown(cmd *cobra.Command) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# %s\n\n", cmd.Name()))

	if cmd.Long != "" {
		md.WriteString(fmt.Sprintf("%s\n\n", cmd.Long))
	} else if cmd.Short != "" {
		md.WriteString(fmt.Sprintf("%s\n\n", cmd.Short))
	}

	if cmd.Runnable() {
		md.WriteString("## Usage\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.UseLine()))
	}

	if hasSubCommands(cmd) {
		md.WriteString("## Available Commands\n\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.IsAvailableCommand() || subCmd.IsAdditionalHelpTopicCommand() {
				continue
			}
			md.WriteString(fmt.Sprintf("- **%s** - %s\n", subCmd.Name(), subCmd.Short))
		}
		md.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		md.WriteString("## Flags\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.LocalFlags().FlagUsages()))
	}

	if cmd.HasAvailableInheritedFlags() {
		md.WriteString("## Global Flags\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.InheritedFlags().FlagUsages()))
	}

	md.WriteString(fmt.Sprintf("Use `%s [command] --help` for more information about a command.\n", cmd.CommandPath()))

	return md.String()
}

// generateUsageMarkdown creates markdown for the usage output
func generateUsageMarkdown(cmd *cobra.Command) string {
	var md strings.Builder

	md.WriteString("## Usage\n\n")

	if cmd.Runnable() {
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.UseLine()))
	}

	if hasSubCommands(cmd) {
		md.WriteString("### Available Commands\n\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.IsAvailableCommand() || subCmd.IsAdditionalHelpTopicCommand() {
				continue
			}
			md.WriteString(fmt.Sprintf("- **%s** - %s\n", subCmd.Name(), subCmd.Short))
		}
		md.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		md.WriteString("### Flags\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.LocalFlags().FlagUsages()))
	}

	if cmd.HasAvailableInheritedFlags() {
		md.WriteString("### Global Flags\n\n")
		md.WriteString(fmt.Sprintf("```\n%s\n```\n\n", cmd.InheritedFlags().FlagUsages()))
	}

	return md.String()
}

// renderMarkdown renders markdown through glamour
func renderMarkdown(markdown string) {
	// Get terminal width if stdout is a terminal
	width := 100 // Default fallback
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain text if glamour fails
		fmt.Println(markdown)
		return
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		fmt.Println(markdown)
		return
	}

	fmt.Print(strings.TrimRight(rendered, " \n"))
	fmt.Println()
}

// hasSubCommands checks if command has available subcommands
func hasSubCommands(cmd *cobra.Command) bool {
	for _, subCmd := range cmd.Commands() {
		if subCmd.IsAvailableCommand() && !subCmd.IsAdditionalHelpTopicCommand() {
			return true
		}
	}
	return false
}

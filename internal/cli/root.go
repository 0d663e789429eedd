// Package cli provides the Cobra command structure for cssbeautify.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cssbeautify/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root cssbeautify command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "cssbeautify",
		Short: "A forgiving, single-pass CSS beautifier",
		Long: `cssbeautify reformats CSS stylesheets into a consistent, readable layout.

It reads each stylesheet once, injecting indentation and spacing around
selectors, declarations and at-rules, and normalizes quotes, hex colors,
leading zeros and zero units. Malformed input never fails: anything it does
not recognize is passed through. Rewrites are verified to keep every token of
the original before files are touched, and backups are taken by default.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// Package cli provides the Cobra command structure for rst2gem.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/gemrst/rst2gem/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rst2gem command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rst2gem",
		Short: "Convert reStructuredText documents to Gemtext",
		Long: `rst2gem converts reStructuredText documents to Gemtext, the lightweight
markup format of the Gemini protocol.

Gemtext is line-oriented and deliberately minimal, so the conversion
restructures rather than styles: headings flatten to three levels, inline
markup dissolves into plain text, links move onto their own lines after the
paragraph that mentions them, and tables are reproduced verbatim in
preformatted blocks.`,
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
		"colorize diagnostics: auto, always, never")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

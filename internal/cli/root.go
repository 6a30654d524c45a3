// Package cli provides the Cobra command structure for gosyntax.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gosyntax/internal/logging"
	"github.com/yaklabco/gosyntax/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root gosyntax command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "gosyntax",
		Short: "Lossless syntax trees for Markdown",
		Long: `gosyntax builds immutable, lossless syntax trees for Markdown files.

Every byte of the input is kept as a token or as trivia, so a tree prints
back to exactly the text it came from. Trees can be inspected, searched by
offset, checked for whitespace diagnostics, and stored in a compact
compressed form.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", config.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newParseCommand(flags))
	rootCmd.AddCommand(newDumpCommand(flags))
	rootCmd.AddCommand(newFindCommand(flags))
	rootCmd.AddCommand(newDiagCommand(flags))
	rootCmd.AddCommand(newStatsCommand(flags))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

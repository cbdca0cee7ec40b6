// Package cli provides the Cobra command structure for gorazor.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gorazor command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gorazor",
		Short: "A parser and checker for Razor templates",
		Long: `gorazor parses Razor templates (.cshtml, .razor) into a full-fidelity
syntax tree, binds tag helpers from descriptor catalogues, and reports the
diagnostics a Razor compiler front end would.

It can check whole trees of templates in parallel, print the syntax tree of a
single file, re-check files incrementally as they change, and verify the
parser against Markdown case books.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExit(ExitInvalidUsage, err)
	})

	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newCodesCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newVerifyCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExit(ExitInvalidUsage, validate(cmd, args))
	}
}

// Package cli provides the Cobra command structure for gomdmark.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdmark command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdmark",
		Short: "Highlight passages of Markdown files from their rendered text",
		Long: `gomdmark highlights passages of Markdown files by wrapping them in ==...==.

Passages are selected by their rendered text, the way they read once the
Markdown is rendered, and mapped back to a unique range of the source.
Code blocks and frontmatter are never touched, and a selection that cannot
be placed unambiguously leaves the file unchanged.`,
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

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddGroup(commandGroups()...)
	for _, sub := range []*cobra.Command{
		newHighlightCommand(),
		newUnhighlightCommand(),
		newRestoreCommand(),
	} {
		sub.GroupID = groupEdit
		rootCmd.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{
		newRenderCommand(),
		newMarksCommand(),
		newProtectedCommand(),
	} {
		sub.GroupID = groupInspect
		rootCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

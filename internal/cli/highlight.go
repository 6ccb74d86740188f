package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/session"
)

// noMark is the --mark value when no mark was given.
const noMark = -1

type mutationFlags struct {
	text      string
	sourcePos string
	mark      int
	noHints   bool
	format    string
	flavor    string
	backup    bool
	noBackups bool
}

func newHighlightCommand() *cobra.Command {
	var cfg config.Config
	flags := &mutationFlags{}

	cmd := &cobra.Command{
		Use:   "highlight FILE --text SNIPPET",
		Short: "Wrap a passage of a Markdown file in a highlight",
		Long: `Wrap a passage of a Markdown file in ==...== highlight markers.

The passage is given as rendered text, without Markdown syntax. It is
located in the source through the rendered reading view; --sourcepos names
the block it lies in when the same text appears more than once.`,
		Example: `  gomdmark highlight notes.md --text "bold text"
      Some **bold** text here.  becomes  Some ==**bold** text== here.
  gomdmark highlight notes.md --text "foo" --sourcepos 3:1-3:20
  gomdmark highlight notes.md --text "bold text" --dry-run --format diff`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.text, "text", "", "rendered text of the passage to highlight")
	cmd.Flags().StringVar(&flags.sourcePos, "sourcepos", "", "data-sourcepos (L:C-L:C) of the block holding the passage")
	cmd.Flags().BoolVar(&flags.noHints, "no-hints", false, "ignore structural hints and search the whole document")
	addMutationFlags(cmd, &cfg, flags)

	return cmd
}

func newUnhighlightCommand() *cobra.Command {
	var cfg config.Config
	flags := &mutationFlags{mark: noMark}

	cmd := &cobra.Command{
		Use:   "unhighlight FILE (--text SNIPPET | --mark N)",
		Short: "Remove a highlight from a Markdown file",
		Long: `Remove the ==...== markers of one highlight, keeping its text.

The highlight is named either by its rendered text or by its index as
printed by 'gomdmark marks'.`,
		Example: `  gomdmark unhighlight notes.md --text "bold text"
  gomdmark unhighlight notes.md --mark 2`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnhighlight(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.text, "text", "", "rendered text of the highlight to remove")
	cmd.Flags().IntVar(&flags.mark, "mark", noMark, "index of the highlight to remove")
	cmd.Flags().StringVar(&flags.sourcePos, "sourcepos", "", "data-sourcepos (L:C-L:C) of the block holding the highlight")
	addMutationFlags(cmd, &cfg, flags)

	return cmd
}

func addMutationFlags(cmd *cobra.Command, cfg *config.Config, flags *mutationFlags) {
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show the change without writing it")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "save the previous content to a sidecar backup")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "disable backups even when configured")
}

// fileArg requires exactly one FILE argument.
func fileArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one FILE argument, got %d", ErrInvalidUsage, len(args))
	}
	return nil
}

// applyMutationFlags copies explicitly set flags into cfg.
func applyMutationFlags(cmd *cobra.Command, cfg *config.Config, flags *mutationFlags) error {
	if err := applyFormatFlag(cmd, cfg, flags.format); err != nil {
		return err
	}
	if err := applyFlavorFlag(cmd, cfg, flags.flavor); err != nil {
		return err
	}
	if flags.noHints {
		useHints := false
		cfg.Matching.Hints = &useHints
	}
	if flags.backup {
		cfg.Backups.Enabled = true
	}
	if flags.noBackups {
		cfg.Backups.Mode = string(fsutil.BackupModeNone)
	}
	return nil
}

func applyFormatFlag(cmd *cobra.Command, cfg *config.Config, format string) error {
	if !cmd.Flags().Changed("format") {
		return nil
	}
	cfg.Format = config.OutputFormat(format)
	if !cfg.Format.IsValid() {
		return fmt.Errorf("%w: unknown format %q; valid formats: text, json, diff", ErrInvalidUsage, format)
	}
	return nil
}

func applyFlavorFlag(cmd *cobra.Command, cfg *config.Config, flavor string) error {
	if !cmd.Flags().Changed("flavor") {
		return nil
	}
	cfg.Flavor = config.Flavor(flavor)
	if !cfg.Flavor.IsValid() {
		return fmt.Errorf("%w: unknown flavor %q; valid flavors: commonmark, gfm", ErrInvalidUsage, flavor)
	}
	return nil
}

func parseSelection(text, sourcePos string) (session.Selection, error) {
	sel := session.Selection{Text: text}
	if sourcePos == "" {
		return sel, nil
	}

	pos, err := mdast.ParseSourcePos(sourcePos)
	if err != nil {
		return session.Selection{}, fmt.Errorf("%w: --sourcepos: %w", ErrInvalidUsage, err)
	}
	sel.SourcePos = &pos
	return sel, nil
}

func runHighlight(cmd *cobra.Command, path string, cfg *config.Config, flags *mutationFlags) error {
	if flags.text == "" {
		return fmt.Errorf("%w: --text is required", ErrInvalidUsage)
	}
	sel, err := parseSelection(flags.text, flags.sourcePos)
	if err != nil {
		return err
	}

	if err := applyMutationFlags(cmd, cfg, flags); err != nil {
		return err
	}
	env, err := newCommandEnv(cmd, cfg)
	if err != nil {
		return err
	}
	rep, err := env.reporter()
	if err != nil {
		return err
	}

	outcome, err := env.newSession(path).Highlight(env.ctx, sel)
	if err != nil {
		return env.notice(err)
	}

	if err := rep.ReportOutcome(env.ctx, outcome); err != nil {
		return fmt.Errorf("report outcome: %w", err)
	}
	return nil
}

func runUnhighlight(cmd *cobra.Command, path string, cfg *config.Config, flags *mutationFlags) error {
	byMark := flags.mark != noMark
	switch {
	case byMark && flags.text != "":
		return fmt.Errorf("%w: --text and --mark are mutually exclusive", ErrInvalidUsage)
	case !byMark && flags.text == "":
		return fmt.Errorf("%w: one of --text or --mark is required", ErrInvalidUsage)
	case byMark && flags.mark < 0:
		return fmt.Errorf("%w: --mark must not be negative", ErrInvalidUsage)
	}

	sel, err := parseSelection(flags.text, flags.sourcePos)
	if err != nil {
		return err
	}

	if err := applyMutationFlags(cmd, cfg, flags); err != nil {
		return err
	}
	env, err := newCommandEnv(cmd, cfg)
	if err != nil {
		return err
	}
	rep, err := env.reporter()
	if err != nil {
		return err
	}

	sess := env.newSession(path)

	var outcome *session.Outcome
	if byMark {
		outcome, err = removeMark(env, sess, flags.mark)
	} else {
		outcome, err = sess.Unhighlight(env.ctx, sel)
	}
	if err != nil {
		return env.notice(err)
	}

	if err := rep.ReportOutcome(env.ctx, outcome); err != nil {
		return fmt.Errorf("report outcome: %w", err)
	}
	return nil
}

// removeMark clicks the highlight at index in a freshly loaded view and
// removes it.
func removeMark(env *commandEnv, sess *session.Session, index int) (*session.Outcome, error) {
	if _, err := sess.Load(env.ctx); err != nil {
		return nil, err
	}
	if _, err := sess.ClickMark(index); err != nil {
		return nil, err
	}
	return sess.RemovePending(env.ctx)
}

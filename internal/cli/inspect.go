package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/posmap"
	"github.com/yaklabco/gomdmark/pkg/reporter"
	"github.com/yaklabco/gomdmark/pkg/runner"
)

type inspectFlags struct {
	format string
	flavor string
	html   bool
	posMap bool
}

func addInspectFlags(cmd *cobra.Command, flags *inspectFlags, withFlavor bool) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	if withFlavor {
		cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	}
}

// inspectEnv resolves the configuration for a read-only command.
func inspectEnv(cmd *cobra.Command, flags *inspectFlags) (*commandEnv, reporter.Reporter, error) {
	var cfg config.Config
	if err := applyFormatFlag(cmd, &cfg, flags.format); err != nil {
		return nil, nil, err
	}
	if err := applyFlavorFlag(cmd, &cfg, flags.flavor); err != nil {
		return nil, nil, err
	}

	env, err := newCommandEnv(cmd, &cfg)
	if err != nil {
		return nil, nil, err
	}
	rep, err := env.reporter()
	if err != nil {
		return nil, nil, err
	}
	return env, rep, nil
}

func newRenderCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print the rendered text of a Markdown file",
		Long: `Print the text of a Markdown file as it reads once rendered. Selections
passed to 'gomdmark highlight' are taken from this text.`,
		Example: `  gomdmark render notes.md
  gomdmark render notes.md --html     Also print the reading view HTML
  gomdmark render notes.md --map      Also print the source position of each character`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	addInspectFlags(cmd, flags, true)
	cmd.Flags().BoolVar(&flags.html, "html", false, "print the reading view HTML")
	cmd.Flags().BoolVar(&flags.posMap, "map", false, "print the position map of the source")

	return cmd
}

func runRender(cmd *cobra.Command, path string, flags *inspectFlags) error {
	env, rep, err := inspectEnv(cmd, flags)
	if err != nil {
		return err
	}

	sess := env.newSession(path)
	v, err := sess.Load(env.ctx)
	if err != nil {
		return err
	}
	source, _ := sess.Source()

	rendered := &reporter.Rendered{Path: path, Text: v.Text()}
	if flags.html {
		html, err := v.HTML()
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		rendered.HTML = html
	}
	if flags.posMap {
		rendered.Map = posmap.Build(source)
	}

	if err := rep.ReportRendered(env.ctx, rendered); err != nil {
		return fmt.Errorf("report rendered view: %w", err)
	}
	return nil
}

type marksFlags struct {
	inspectFlags
	ignore []string
	jobs   int
}

func newMarksCommand() *cobra.Command {
	flags := &marksFlags{}

	cmd := &cobra.Command{
		Use:   "marks [PATH...]",
		Short: "List the highlights of Markdown files",
		Long: `List the highlights of Markdown files in document order, with the
position of the block holding each one and of its ==...== wrapper.

The index in the first column is what 'gomdmark unhighlight --mark' takes.
Directories are searched for .md and .markdown files; with no path the
current directory is searched.`,
		Example: `  gomdmark marks notes.md
  gomdmark marks docs --ignore 'archive/**'
  gomdmark marks . --format json --jobs 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarks(cmd, args, flags)
		},
	}

	addInspectFlags(cmd, &flags.inspectFlags, true)
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob of paths to skip while searching directories (repeatable)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of files read concurrently (0 means one per CPU)")

	return cmd
}

func runMarks(cmd *cobra.Command, paths []string, flags *marksFlags) error {
	env, rep, err := inspectEnv(cmd, &flags.inspectFlags)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Paths:        paths,
		WorkingDir:   env.workDir,
		ExcludeGlobs: flags.ignore,
		Jobs:         flags.jobs,
	}
	result, err := runner.Run(env.ctx, opts, func(ctx context.Context, path string) (*reporter.MarkListing, error) {
		sess := env.newSession(path)
		v, err := sess.Load(ctx)
		if err != nil {
			return nil, err
		}
		source, _ := sess.Source()
		return reporter.NewMarkListing(path, source, v, env.cfg.Remove.AncestorDepth), nil
	})
	if err != nil {
		if errors.Is(err, runner.ErrInvalidPattern) {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		return err
	}

	logger := logging.FromContext(env.ctx)
	logger.Debug("searched for highlights",
		"discovered", result.Stats.FilesDiscovered,
		"processed", result.Stats.FilesProcessed,
		"errored", result.Stats.FilesErrored)

	for _, outcome := range result.Files {
		if outcome.Error != nil {
			if result.Stats.FilesErrored > 1 {
				logger.Warn("skipped file", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
			}
			continue
		}
		logger.Debug("listed highlights", logging.FieldPath, outcome.Path, "count", len(outcome.Value.Marks))
		if err := rep.ReportMarks(env.ctx, outcome.Value); err != nil {
			return fmt.Errorf("report marks: %w", err)
		}
	}

	firstErr := result.FirstError()
	if result.Stats.FilesErrored > 1 {
		firstErr = fmt.Errorf("%d of %d files skipped: %w",
			result.Stats.FilesErrored, result.Stats.FilesDiscovered, firstErr)
	}
	return env.notice(firstErr)
}

func newProtectedCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "protected FILE",
		Short: "List the ranges of a Markdown file that cannot be highlighted",
		Long: `List the frontmatter and fenced code blocks of a Markdown file. Highlights
are never inserted into or across these ranges. Unlabelled fences show
the language detected from their content.`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(cmd, args[0], flags)
		},
	}

	addInspectFlags(cmd, flags, false)

	return cmd
}

func runProtected(cmd *cobra.Command, path string, flags *inspectFlags) error {
	env, rep, err := inspectEnv(cmd, flags)
	if err != nil {
		return err
	}

	source, _, err := fsutil.ReadFile(env.ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := rep.ReportProtected(env.ctx, reporter.NewProtectedListing(path, source)); err != nil {
		return fmt.Errorf("report protected ranges: %w", err)
	}
	return nil
}

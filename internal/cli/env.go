package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdmark/internal/configloader"
	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/document"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/reporter"
	"github.com/yaklabco/gomdmark/pkg/resolve"
	"github.com/yaklabco/gomdmark/pkg/session"
)

// commandEnv is the resolved state a document command runs with.
type commandEnv struct {
	ctx     context.Context
	cfg     *config.Config
	workDir string
	color   string
	stdout  io.Writer
	stderr  io.Writer
	styles  *pretty.Styles
}

// newCommandEnv loads the configuration, with cliCfg holding the values
// set by flags, and attaches the default logger to the command context.
func newCommandEnv(cmd *cobra.Command, cliCfg *config.Config) (*commandEnv, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, err
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldHints, cfg.Matching.UseHints(),
		logging.FieldBackup, cfg.Backups.Enabled,
	)

	stderr := cmd.ErrOrStderr()
	return &commandEnv{
		ctx:     ctx,
		cfg:     cfg,
		workDir: workDir,
		color:   colorMode,
		stdout:  cmd.OutOrStdout(),
		stderr:  stderr,
		styles:  pretty.NewStyles(pretty.IsColorEnabled(colorMode, stderr)),
	}, nil
}

// reporter creates the reporter for the configured output format.
//
//nolint:ireturn // Reporter is selected by format
func (e *commandEnv) reporter() (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(e.cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      e.stdout,
		Format:      format,
		Color:       e.color,
		ShowContext: true,
		TermWidth:   terminalWidth(e.stdout),
		WorkingDir:  e.workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}

func (e *commandEnv) sessionOptions() session.Options {
	return session.Options{
		Flavor: string(e.cfg.Flavor),
		Resolve: resolve.Options{
			MaxLengthRatio: e.cfg.Matching.MaxLengthRatio,
			UseHints:       e.cfg.Matching.UseHints(),
		},
		SelectionDepth: e.cfg.Selection.AncestorDepth,
		RemoveDepth:    e.cfg.Remove.AncestorDepth,
		DryRun:         e.cfg.DryRun,
	}
}

func (e *commandEnv) backupConfig() fsutil.BackupConfig {
	return fsutil.BackupConfig{
		Enabled: e.cfg.Backups.Enabled,
		Mode:    fsutil.BackupMode(e.cfg.Backups.Mode),
	}
}

func (e *commandEnv) newSession(path string) *session.Session {
	return session.New(document.NewFileStore(e.backupConfig()), path, e.sessionOptions())
}

// notice prints a refusal as a one-line notice and marks it shown.
// Other errors are returned unchanged.
func (e *commandEnv) notice(err error) error {
	if !IsNotice(err) {
		return err
	}
	fmt.Fprint(e.stderr, e.styles.FormatNotice(pretty.NoticeWarning, err.Error()))
	return errors.Join(ErrNoticeShown, err)
}

// terminalWidth returns the width of w when it is a terminal, else zero.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

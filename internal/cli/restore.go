package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

func newRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Undo the last change to a Markdown file from its backup",
		Long: `Put the sidecar backup of a Markdown file (FILE` + fsutil.BackupSuffix + `) back in
place and remove it. Backups are written before each change when
backups.enabled is set in the configuration or --backup is given.`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args[0])
		},
	}

	return cmd
}

func runRestore(cmd *cobra.Command, path string) error {
	env, err := newCommandEnv(cmd, &config.Config{})
	if err != nil {
		return err
	}

	restored, err := fsutil.RestoreBackup(env.ctx, path, fsutil.BackupModeSidecar)
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	if !restored {
		return env.notice(fmt.Errorf("%w: %s", ErrNoBackup, path))
	}

	logging.FromContext(env.ctx).Debug("restored from backup", logging.FieldPath, path)
	fmt.Fprintln(env.stdout, env.styles.Success.Render("Restored ")+env.styles.FilePath.Render(path))
	return nil
}

package fsutil

import (
	"context"
	"fmt"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the document.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to a document path to name its sidecar backup.
const BackupSuffix = ".gomdmark.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: sidecar mode, disabled.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Enabled: false, Mode: BackupModeSidecar}
}

// Active reports whether backups will be written.
func (c BackupConfig) Active() bool {
	return c.Enabled && c.Mode != BackupModeNone
}

// BackupPath returns the backup path for path, or "" when mode stores none.
// Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup saves content, the document as it was before a mutation,
// to the backup path. Each mutation replaces the previous backup, so the
// backup always undoes the most recent change. Returns the backup path,
// or "" when backups are inactive.
func CreateBackup(ctx context.Context, path, content string, mode os.FileMode, cfg BackupConfig) (string, error) {
	if !cfg.Active() {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path, cfg.Mode)
	if err := WriteAtomic(ctx, backupPath, content, mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}

// RestoreBackup puts the backup of path back in place and removes it.
// Returns false when there is no backup.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, err := os.ReadFile(backupPath)
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, string(content), stat.Mode()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}

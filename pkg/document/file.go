package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// FileStore keeps documents on the local file system.
type FileStore struct {
	backups fsutil.BackupConfig

	mu    sync.Mutex
	infos map[string]*fsutil.FileInfo
}

// NewFileStore creates a file store that writes backups per cfg.
func NewFileStore(cfg fsutil.BackupConfig) *FileStore {
	return &FileStore{backups: cfg, infos: make(map[string]*fsutil.FileInfo)}
}

// Read reads path and remembers its state for the next Write.
func (s *FileStore) Read(ctx context.Context, path string) (*Snapshot, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.infos[path] = info
	s.mu.Unlock()

	return &Snapshot{Path: path, Content: content, Version: info.Fingerprint()}, nil
}

// Write backs up the previous content when backups are enabled and then
// replaces the file atomically.
func (s *FileStore) Write(ctx context.Context, snap *Snapshot, content string) (*Snapshot, error) {
	s.mu.Lock()
	info, ok := s.infos[snap.Path]
	s.mu.Unlock()
	if !ok || info.Fingerprint() != snap.Version {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentModification, snap.Path)
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", snap.Path, err)
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentModification, snap.Path)
	}

	if _, err := fsutil.CreateBackup(ctx, snap.Path, snap.Content, info.Mode, s.backups); err != nil {
		return nil, err
	}

	if err := fsutil.WriteAtomic(ctx, snap.Path, content, info.Mode); err != nil {
		return nil, fmt.Errorf("write %s: %w", snap.Path, err)
	}

	return s.Read(ctx, snap.Path)
}

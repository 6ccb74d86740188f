package document

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// MemoryStore keeps documents in memory. Versions are write counters.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]string
	versions map[string]int
}

// NewMemoryStore creates a store holding docs, keyed by path.
func NewMemoryStore(docs map[string]string) *MemoryStore {
	s := &MemoryStore{docs: make(map[string]string, len(docs)), versions: make(map[string]int, len(docs))}
	for path, content := range docs {
		s.docs[path] = content
	}
	return s
}

// Read returns the document at path.
func (s *MemoryStore) Read(ctx context.Context, path string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fsutil.ErrNotFound, path)
	}
	return &Snapshot{Path: path, Content: content, Version: strconv.Itoa(s.versions[path])}, nil
}

// Write replaces the document if its version still matches snap.
func (s *MemoryStore) Write(ctx context.Context, snap *Snapshot, content string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("write %s: %w", snap.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[snap.Path]; !ok || strconv.Itoa(s.versions[snap.Path]) != snap.Version {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentModification, snap.Path)
	}

	s.versions[snap.Path]++
	s.docs[snap.Path] = content
	return &Snapshot{Path: snap.Path, Content: content, Version: strconv.Itoa(s.versions[snap.Path])}, nil
}

// Set replaces a document outside of the read/write cycle, as an external
// editor would.
func (s *MemoryStore) Set(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[path] = content
	s.versions[path]++
}

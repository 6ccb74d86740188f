// Package document is the storage side of a highlight operation: read the
// current source, then write the mutated source back, refusing the write
// when the stored document changed in between.
package document

import (
	"context"
	"errors"
)

// ErrConcurrentModification is returned by Write when the document was
// changed by someone else after it was read.
var ErrConcurrentModification = errors.New("document changed since it was read")

// Snapshot is a document as read from a store.
type Snapshot struct {
	Path    string
	Content string

	// Version identifies the stored state Content was read from.
	Version string
}

// Store reads and writes whole documents.
type Store interface {
	// Read returns the current document at path.
	Read(ctx context.Context, path string) (*Snapshot, error)

	// Write replaces the document with content if it is still at the
	// version in snap. The returned snapshot describes the new state.
	Write(ctx context.Context, snap *Snapshot, content string) (*Snapshot, error)
}

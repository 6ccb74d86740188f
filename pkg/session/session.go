// Package session holds the state of one reader working on one document:
// the current reading view, the highlight clicked for removal, and the
// lock that serializes each read, compute and write cycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/document"
	"github.com/yaklabco/gomdmark/pkg/fix"
	"github.com/yaklabco/gomdmark/pkg/highlight"
	"github.com/yaklabco/gomdmark/pkg/mdast"
	"github.com/yaklabco/gomdmark/pkg/parser/goldmark"
	"github.com/yaklabco/gomdmark/pkg/resolve"
	"github.com/yaklabco/gomdmark/pkg/view"
)

// ErrNotLoaded is returned when an operation needs the reading view
// before Load was called.
var ErrNotLoaded = errors.New("document not loaded")

// Options configures a session.
type Options struct {
	Flavor         string
	Resolve        resolve.Options
	SelectionDepth int
	RemoveDepth    int

	// DryRun computes mutations without writing them.
	DryRun bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Flavor:         goldmark.FlavorCommonMark,
		Resolve:        resolve.DefaultOptions(),
		SelectionDepth: view.DefaultSelectionDepth,
		RemoveDepth:    view.DefaultRemoveDepth,
	}
}

// Selection is text selected in the reading view. SourcePos, when set,
// is the data-sourcepos of the block the selection lies in and replaces
// hints derived from the view.
type Selection struct {
	Text      string
	SourcePos *mdast.SourcePosition
}

// Action names the operation that produced an Outcome.
type Action string

const (
	ActionHighlight   Action = "highlight"
	ActionUnhighlight Action = "unhighlight"
)

// Outcome is the result of one operation.
type Outcome struct {
	Action   Action
	Path     string
	Original string

	// Result is the mutation computed against Original.
	Result *highlight.Result

	// Written is true when the mutation reached the store.
	Written bool

	// Diff is nil when nothing changed.
	Diff *fix.Diff
}

type pendingMark struct {
	mark    view.Mark
	version string
}

// Session is safe for concurrent use. Operations run one at a time.
type Session struct {
	store  document.Store
	parser *goldmark.Parser
	path   string
	opts   Options

	mu      sync.Mutex
	snap    *document.Snapshot
	view    *view.View
	pending *pendingMark
}

// New creates a session for the document at path.
func New(store document.Store, path string, opts Options) *Session {
	return &Session{
		store:  store,
		parser: goldmark.New(opts.Flavor),
		path:   path,
		opts:   opts,
	}
}

// Load reads the document and renders its reading view.
func (s *Session) Load(ctx context.Context) (*view.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.view, nil
}

// Source returns the document content as last read or written.
func (s *Session) Source() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		return "", false
	}
	return s.snap.Content, true
}

// refresh reads the stored document and re-renders the view.
func (s *Session) refresh(ctx context.Context) error {
	snap, err := s.store.Read(ctx, s.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	return s.render(ctx, snap)
}

// render makes snap the current document and rebuilds its view.
func (s *Session) render(ctx context.Context, snap *document.Snapshot) error {
	s.snap, s.view = snap, nil

	html, err := s.parser.Render(ctx, []byte(snap.Content))
	if err != nil {
		return err
	}
	v, err := view.New(html)
	if err != nil {
		return err
	}

	s.view = v
	return nil
}

// Highlight wraps the selection in highlight markers. Selecting text
// clears any highlight clicked for removal.
func (s *Session) Highlight(ctx context.Context, sel Selection) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = logging.WithPath(ctx, s.path)
	logger := logging.FromContext(ctx)
	s.pending = nil

	if strings.TrimSpace(sel.Text) == "" {
		return nil, highlight.ErrEmptySelection
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	doc := mdast.NewDocument(s.path, s.snap.Content)
	hints := s.hints(doc, sel)

	res, err := highlight.Insert(s.snap.Content, highlight.Selection{Text: sel.Text, Hints: hints}, s.opts.Resolve)
	if err != nil {
		logger.Warn("highlight failed", logging.FieldSnippet, sel.Text, logging.FieldError, err)
		return nil, err
	}

	logger.Debug("selection resolved",
		logging.FieldTier, res.Tier,
		logging.FieldStart, res.Range.StartOffset,
		logging.FieldEnd, res.Range.EndOffset,
		logging.FieldChanged, res.Changed)

	return s.commit(ctx, logger, ActionHighlight, res)
}

func (s *Session) hints(doc *mdast.Document, sel Selection) resolve.Hints {
	if !s.opts.Resolve.UseHints {
		return resolve.Hints{}
	}
	if sel.SourcePos != nil {
		r, err := doc.Range(*sel.SourcePos)
		if err != nil {
			return resolve.Hints{}
		}
		return resolve.SingleHint(r)
	}
	return s.view.SelectionHints(doc, sel.Text, s.opts.SelectionDepth)
}

// ClickMark sets the highlight at index as the pending removal target.
// It fails with highlight.ErrNoRemoveTarget when the view has no such
// highlight or it holds no text.
func (s *Session) ClickMark(index int) (view.Mark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return view.Mark{}, ErrNotLoaded
	}

	s.pending = nil
	mark, ok := s.view.Mark(index)
	if !ok || strings.TrimSpace(mark.Text) == "" {
		return view.Mark{}, fmt.Errorf("%w: mark %d", highlight.ErrNoRemoveTarget, index)
	}

	s.pending = &pendingMark{mark: mark, version: s.snap.Version}
	return mark, nil
}

// ClickText clears the pending removal target.
func (s *Session) ClickText() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
}

// Pending returns the highlight clicked for removal.
func (s *Session) Pending() (view.Mark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return view.Mark{}, false
	}
	return s.pending.mark, true
}

// RemovePending removes the markers of the clicked highlight. The
// target must still exist: if the document changed since the click, the
// removal is refused. The pending target is cleared either way.
func (s *Session) RemovePending(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending
	s.pending = nil
	if pending == nil {
		return nil, highlight.ErrNoRemoveTarget
	}

	ctx = logging.WithMark(logging.WithPath(ctx, s.path), pending.mark.Index)
	logger := logging.FromContext(ctx)

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	if s.snap.Version != pending.version {
		logger.Warn("document changed since the highlight was clicked")
		return nil, fmt.Errorf("%w: document changed", highlight.ErrNoRemoveTarget)
	}

	doc := mdast.NewDocument(s.path, s.snap.Content)
	target := highlight.RemoveTarget{
		Text:  pending.mark.Text,
		Scope: pending.mark.Scope(doc, s.opts.RemoveDepth),
	}
	return s.remove(ctx, logger, target)
}

// Unhighlight removes the highlight whose text is text. SourcePos, when
// set, names the block to search first.
func (s *Session) Unhighlight(ctx context.Context, sel Selection) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	ctx = logging.WithPath(ctx, s.path)
	logger := logging.FromContext(ctx)

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	target := highlight.RemoveTarget{Text: sel.Text}
	if sel.SourcePos != nil {
		if r, err := mdast.NewDocument(s.path, s.snap.Content).Range(*sel.SourcePos); err == nil {
			target.Scope = &r
		}
	}
	return s.remove(ctx, logger, target)
}

func (s *Session) remove(ctx context.Context, logger *log.Logger, target highlight.RemoveTarget) (*Outcome, error) {
	res, err := highlight.Remove(s.snap.Content, target)
	if err != nil {
		logger.Warn("remove failed", logging.FieldSnippet, target.Text, logging.FieldError, err)
		return nil, err
	}

	logger.Debug("highlight resolved",
		logging.FieldStart, res.Range.StartOffset,
		logging.FieldEnd, res.Range.EndOffset)

	return s.commit(ctx, logger, ActionUnhighlight, res)
}

// commit writes a computed mutation unless it is a no-op or a dry run.
func (s *Session) commit(ctx context.Context, logger *log.Logger, action Action, res *highlight.Result) (*Outcome, error) {
	out := &Outcome{
		Action:   action,
		Path:     s.path,
		Original: s.snap.Content,
		Result:   res,
		Diff:     fix.GenerateDiff(s.path, s.snap.Content, res.Content),
	}

	if !res.Changed || s.opts.DryRun {
		logger.Debug("not writing", logging.FieldChanged, res.Changed, logging.FieldDryRun, s.opts.DryRun)
		return out, nil
	}

	snap, err := s.store.Write(ctx, s.snap, res.Content)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", s.path, err)
	}
	out.Written = true

	if err := s.render(ctx, snap); err != nil {
		return out, err
	}
	return out, nil
}

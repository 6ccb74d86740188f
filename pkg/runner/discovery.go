package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// ErrInvalidPattern is returned when an exclude glob does not compile.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

// Discover finds Markdown files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
//
// Files named explicitly in opts.Paths are always included. Extension and
// exclude filters apply only to files found by walking a directory.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, statError(inputPath, err)
		}

		if !info.IsDir() {
			add(absPath)
			continue
		}

		discovered, err := walker.walk(absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

func statError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", fsutil.ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", fsutil.ErrPermissionDenied, path)
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// pattern is a compiled exclude glob. Patterns without a separator also
// match against the base name, so "draft*.md" skips drafts at any depth.
type pattern struct {
	glob     glob.Glob
	baseOnly bool
}

func compileGlobs(patterns []string) ([]pattern, error) {
	compiled := make([]pattern, 0, len(patterns))
	for _, raw := range patterns {
		normalized := filepath.ToSlash(raw)
		g, err := glob.Compile(normalized, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, raw, err)
		}
		compiled = append(compiled, pattern{
			glob:     g,
			baseOnly: !strings.Contains(normalized, "/"),
		})
	}
	return compiled, nil
}

func excluded(relPath string, isDir bool, patterns []pattern) bool {
	relPath = filepath.ToSlash(relPath)
	base := relPath[strings.LastIndex(relPath, "/")+1:]

	for _, p := range patterns {
		if p.glob.Match(relPath) {
			return true
		}
		// "vendor/**" also names the directory itself.
		if isDir && p.glob.Match(relPath+"/") {
			return true
		}
		if p.baseOnly && p.glob.Match(base) {
			return true
		}
	}
	return false
}

type walker struct {
	ctx        context.Context
	workDir    string
	extensions []string
	excludes   []pattern
	follow     bool
}

// walk recursively collects Markdown files under root, skipping hidden
// entries and excluded paths.
func (w *walker) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath, relErr := filepath.Rel(w.workDir, path)
		if relErr != nil {
			relPath = path
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || excluded(relPath, true, w.excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // unreadable symlink targets are skipped
			}
			if info.IsDir() {
				if !w.follow || excluded(relPath, true, w.excludes) {
					return nil
				}
				// Walk the target: WalkDir does not descend into a symlinked root.
				subFiles, err := w.walk(realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if w.hasExtension(path) && !excluded(relPath, false, w.excludes) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (w *walker) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

package cli

import (
	"errors"

	"github.com/yaklabco/gomdmark/internal/configloader"
	"github.com/yaklabco/gomdmark/pkg/document"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/highlight"
)

// Exit codes for gomdmark.
const (
	// ExitSuccess indicates the operation completed.
	ExitSuccess = 0

	// ExitNotice indicates the operation was refused with a notice and
	// the document was left untouched.
	ExitNotice = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrNoticeShown is joined to an error whose notice was already printed,
// so the entry point does not log it again.
var ErrNoticeShown = errors.New("notice shown")

// ErrInvalidUsage marks errors in command-line arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ErrNoBackup is returned by restore when the file has no backup.
var ErrNoBackup = errors.New("no backup to restore")

// noticeErrors are refusals reported to the user as notices.
//
//nolint:gochecknoglobals // Fixed lookup table
var noticeErrors = []error{
	highlight.ErrEmptySelection,
	highlight.ErrUnresolvableRange,
	highlight.ErrProtectedOverlap,
	highlight.ErrNoRemoveTarget,
	highlight.ErrUnresolvableWrapper,
	highlight.ErrMalformedWrapper,
	document.ErrConcurrentModification,
	ErrNoBackup,
}

// ioErrors are storage failures.
//
//nolint:gochecknoglobals // Fixed lookup table
var ioErrors = []error{
	fsutil.ErrNotFound,
	fsutil.ErrPermissionDenied,
	fsutil.ErrIsDirectory,
}

// IsNotice reports whether err is a refusal that leaves the document
// untouched.
func IsNotice(err error) bool {
	return isAny(err, noticeErrors)
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *configloader.ValidationError
	switch {
	case IsNotice(err):
		return ExitNotice
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, configloader.ErrConfigLoad):
		return ExitConfigError
	case isAny(err, ioErrors):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

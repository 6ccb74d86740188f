package cli_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdmark/internal/cli"
	"github.com/yaklabco/gomdmark/internal/configloader"
	"github.com/yaklabco/gomdmark/pkg/document"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/highlight"
)

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "unresolvable range", err: highlight.ErrUnresolvableRange, want: cli.ExitNotice},
		{
			name: "protected overlap",
			err:  &highlight.OverlapError{},
			want: cli.ExitNotice,
		},
		{
			name: "shown notice",
			err:  errors.Join(cli.ErrNoticeShown, highlight.ErrEmptySelection),
			want: cli.ExitNotice,
		},
		{
			name: "concurrent modification",
			err:  fmt.Errorf("write notes.md: %w", document.ErrConcurrentModification),
			want: cli.ExitNotice,
		},
		{name: "no backup", err: cli.ErrNoBackup, want: cli.ExitNotice},
		{
			name: "invalid usage",
			err:  fmt.Errorf("%w: --text is required", cli.ErrInvalidUsage),
			want: cli.ExitInvalidUsage,
		},
		{
			name: "validation error",
			err:  &configloader.ValidationError{Field: "flavor", Message: "unknown flavor"},
			want: cli.ExitConfigError,
		},
		{
			name: "config load error",
			err:  fmt.Errorf("%w: project config: bad yaml", configloader.ErrConfigLoad),
			want: cli.ExitConfigError,
		},
		{
			name: "file not found",
			err:  fmt.Errorf("read notes.md: %w", fsutil.ErrNotFound),
			want: cli.ExitIOError,
		},
		{name: "other", err: context.Canceled, want: cli.ExitInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, cli.ExitCodeFromError(testCase.err))
		})
	}
}

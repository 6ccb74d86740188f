package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// FileFunc processes a single discovered file.
type FileFunc[T any] func(ctx context.Context, path string) (T, error)

// Run discovers files under opts.Paths and calls fn for each of them.
//
// The runner:
//   - Discovers Markdown files from the given paths
//   - Processes files concurrently using a worker pool
//   - Returns outcomes in path order regardless of the order workers finish in
//   - Records a per-file error on its outcome without stopping the run
//   - Respects context cancellation
func Run[T any](ctx context.Context, opts Options, fn FileFunc[T]) (*Result[T], error) {
	// Discover files.
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result[T]{Files: make([]FileOutcome[T], 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	// Create channels.
	workCh := make(chan string)
	outCh := make(chan FileOutcome[T])

	var wg sync.WaitGroup

	// Start workers.
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, fn, workCh, outCh)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Collect results.
	// Use a map to maintain order since workers may complete out of order.
	outcomes := make(map[string]FileOutcome[T], len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	// Check for context error.
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func worker[T any](
	ctx context.Context,
	fn FileFunc[T],
	workCh <-chan string,
	outCh chan<- FileOutcome[T],
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome[T]{Path: path}

		value, err := fn(ctx, path)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Value = value
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

package runner

// FileOutcome is the value produced for one file, or the error that
// prevented producing it.
type FileOutcome[T any] struct {
	// Path is the file path that was processed.
	Path string

	// Value is the result of the per-file function. Zero when Error is set.
	Value T

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int
}

// Result is the overall runner result.
type Result[T any] struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome[T]

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result[T]) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// FirstError returns the error of the first failed file in path order.
func (r *Result[T]) FirstError() error {
	if r == nil {
		return nil
	}
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			return outcome.Error
		}
	}
	return nil
}

func (r *Result[T]) accumulate(outcome FileOutcome[T]) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++
}

package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "selection.ancestor_depth").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// largeDepth is the ancestor depth past which a warning is raised.
const largeDepth = 32

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, diff", cfg.Format),
		})
	}

	validateDepth(result, "selection.ancestor_depth", cfg.Selection.AncestorDepth)
	validateDepth(result, "remove.ancestor_depth", cfg.Remove.AncestorDepth)

	if cfg.Matching.MaxLengthRatio <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "matching.max_length_ratio",
			Value:   cfg.Matching.MaxLengthRatio,
			Message: "max_length_ratio must be > 0",
		})
	}

	if cfg.Backups.Mode != "" && !IsValidBackupMode(cfg.Backups.Mode) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}
	if cfg.Backups.Enabled && cfg.Backups.Mode == string(fsutil.BackupModeNone) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "backups",
			Message: "backups are enabled but mode is none; no backups will be written",
		})
	}

	return result
}

func validateDepth(result *ValidationResult, field string, depth int) {
	switch {
	case depth <= 0:
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   depth,
			Message: "ancestor_depth must be > 0",
		})
	case depth > largeDepth:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   field,
			Value:   depth,
			Message: fmt.Sprintf("ancestor_depth %d is unusually large", depth),
		})
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	switch fsutil.BackupMode(mode) {
	case fsutil.BackupModeSidecar, fsutil.BackupModeNone:
		return true
	default:
		return false
	}
}

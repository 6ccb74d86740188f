// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldFlavor = "flavor"
	FieldDryRun = "dry_run"
	FieldHints  = "hints"

	// Operation fields.
	FieldSnippet   = "snippet"
	FieldTier      = "tier"
	FieldStart     = "start"
	FieldEnd       = "end"
	FieldSourcePos = "sourcepos"
	FieldMark      = "mark"
	FieldChanged   = "changed"
	FieldBackup    = "backup"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

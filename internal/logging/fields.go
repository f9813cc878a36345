// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig     = "config"
	FieldStandalone = "standalone"
	FieldHighlight  = "highlight"
	FieldJobs       = "jobs"

	// Document fields.
	FieldTokens = "tokens"
	FieldBlocks = "blocks"
	FieldBytes  = "bytes"
	FieldKind   = "kind"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"
	FieldFilesWritten    = "files_written"
	FieldFilesUnchanged  = "files_unchanged"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Parse fields.
	FieldFlavor      = "flavor"
	FieldBytes       = "bytes"
	FieldNodes       = "nodes"
	FieldTokens      = "tokens"
	FieldDiagnostics = "diagnostics"
	FieldOffset      = "offset"
	FieldKind        = "kind"
	FieldLevel       = "level"
	FieldDuration    = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

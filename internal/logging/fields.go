package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldConfig = "config"

	// Conversion fields.
	FieldSource      = "source"
	FieldLine        = "line"
	FieldSeverity    = "severity"
	FieldDiagnostics = "diagnostics"
	FieldBytes       = "bytes"
	FieldFormat      = "format"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

package logging

// Structured log keys. Use these instead of string literals so the same
// value is always logged under the same key.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"
	FieldSize       = "size"
	FieldEvent      = "event"
	FieldBackup     = "backup"

	FieldConfig = "config"
	FieldLayer  = "layer"
	FieldJobs   = "jobs"

	FieldDiagnostics = "diagnostics"
	FieldAccepted    = "accepted"
	FieldStatus      = "status"
	FieldChange      = "change"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Case books.
	FieldBook   = "book"
	FieldCase   = "case"
	FieldPassed = "passed"
)

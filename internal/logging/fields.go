package logging

// Structured logging keys.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run options.
	FieldWrite  = "write"
	FieldCheck  = "check"
	FieldVerify = "verify"
	FieldJobs   = "jobs"

	// Engine tracing.
	FieldState       = "state"
	FieldFrom        = "from"
	FieldDepth       = "depth"
	FieldOffset      = "offset"
	FieldInputLen    = "input_len"
	FieldOutputLen   = "output_len"
	FieldSteps       = "steps"
	FieldTransitions = "transitions"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesErrored    = "files_errored"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldSource     = "source"

	// Run fields.
	FieldRunID  = "run_id"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldRules  = "rules"

	// Engine fields.
	FieldRule       = "rule"
	FieldPass       = "pass"
	FieldAttempt    = "attempt"
	FieldEdits      = "edits"
	FieldDeferred   = "deferred"
	FieldGeneration = "generation"
	FieldNode       = "node"
	FieldReason     = "reason"
	FieldLine       = "line"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule metadata fields.
	FieldName        = "name"
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"
)

// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

// Symbol constants for CLI output. They are used for status indicators,
// alerts and empty table cells.
const (
	// Success represents successful completion of an operation.
	// Used for: full agreement, created bundles, resolved assets.
	Success = "✓"

	// Error represents failures or missing required input.
	// Used for: malformed archives, failed bundles, validation errors.
	Error = "✗"

	// Warning represents non-critical issues.
	// Used for: unresolved audio assets, skipped records.
	Warning = "!"

	// Optional represents an absent value.
	// Used for: words a speaker did not classify.
	Optional = "-"

	// Info represents informational messages.
	Info = "i"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)

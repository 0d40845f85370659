// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// CodeInvalidName marks an entry whose name is not valid UTF-8.
	CodeInvalidName DiagnosticCode = "invalid_entry_name"
	// CodeUnreadableEntry marks an entry that could not be inspected.
	CodeUnreadableEntry DiagnosticCode = "unreadable_entry"
)

type (
	// DiagnosticCode is a machine-readable identifier for a skipped entry.
	DiagnosticCode string

	// Diagnostic describes an entry that was skipped during discovery. Skips
	// are not errors; callers decide whether to log them.
	Diagnostic struct {
		// Code is a machine-readable identifier (e.g., "invalid_entry_name").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the path of the skipped entry.
		Path string
		// Cause is the underlying error (optional).
		Cause error
	}

	// Result bundles discovered sources with diagnostics for skipped entries.
	Result struct {
		Paths       []string
		Diagnostics []Diagnostic
	}
)

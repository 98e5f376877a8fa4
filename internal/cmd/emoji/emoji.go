// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed in front of summary lines.
const (
	// Success marks a check that passed.
	Success = "✓"

	// Error marks a check that found problems.
	Error = "✗"

	// Warning marks a non-fatal finding.
	Warning = "!"

	// Info marks informational lines.
	Info = "i"
)

// Status returns Success when ok and Error otherwise.
func Status(ok bool) string {
	if ok {
		return Success
	}
	return Error
}

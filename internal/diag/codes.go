// Package diag carries the ambient diagnostic/error-reporting machinery used
// by the assembly surface and its tools: structured error codes and a
// caret-style terminal reporter in the style of internal/errors.
package diag

// Error codes for the assembly toolchain, reusing the E0900-E0999 range the
// original compiler reserved for tooling errors.
const (
	// ErrorSyntax: the assembly text could not be parsed.
	ErrorSyntax = "E0900"

	// ErrorUnknownLabel: a branch or jump target has no corresponding label
	// declaration within the function.
	ErrorUnknownLabel = "E0901"

	// ErrorDuplicateLabel: the same label name is declared twice in one
	// function.
	ErrorDuplicateLabel = "E0902"

	// ErrorBlockTooLarge: a basic block exceeds the size the reordering pass
	// will operate on; reported as a warning-level note, not a hard failure,
	// since the pass itself degrades gracefully (it passes the block through
	// untouched).
	ErrorBlockTooLarge = "E0903"
)

// Description returns a human-readable description of an assembly-toolchain
// error code, falling through to "unknown error code" for anything outside
// this package's range.
func Description(code string) string {
	switch code {
	case ErrorSyntax:
		return "Assembly text does not match the expected grammar"
	case ErrorUnknownLabel:
		return "Branch or jump target does not name a label in this function"
	case ErrorDuplicateLabel:
		return "Label name declared more than once in this function"
	case ErrorBlockTooLarge:
		return "Basic block exceeds the size the reordering pass will act on"
	default:
		return "Unknown error code"
	}
}

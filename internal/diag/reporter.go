package diag

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

// Diagnostic is a single positioned error or note about an assembly source
// file, in the style of errors.CompilerError but scoped to this module's
// much smaller toolchain.
type Diagnostic struct {
	Code    string
	Message string
	Line    int
	Column  int
}

// Reporter formats Diagnostics against one source file, Rust-compiler style:
// a colored header, a `-->` location line, and a caret under the offending
// column.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter over source, split once for repeated line
// lookups.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders d as a multi-line, colored diagnostic string.
func (r *Reporter) Format(d Diagnostic) string {
	var out strings.Builder

	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	out.WriteString(fmt.Sprintf("%s[%s]: %s\n", bold("error"), d.Code, d.Message))
	out.WriteString(fmt.Sprintf("  %s %s:%d:%d\n", dim("-->"), r.filename, d.Line, d.Column))

	if d.Line > 0 && d.Line <= len(r.lines) {
		out.WriteString(fmt.Sprintf("   %s %s\n", dim("│"), r.lines[d.Line-1]))
		caret := strings.Repeat(" ", max(0, d.Column-1)) + bold("^")
		out.WriteString(fmt.Sprintf("   %s %s\n", dim("│"), caret))
	}
	return out.String()
}

// ReportParseError prints a caret-style diagnostic for a participle parse
// error to stdout, and returns an error carrying the same
// message for callers that don't print directly (e.g. the LSP server).
func ReportParseError(filename, source string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return err
	}

	pos := pe.Position()
	reporter := NewReporter(filename, source)
	msg := reporter.Format(Diagnostic{
		Code:    ErrorSyntax,
		Message: pe.Message(),
		Line:    pos.Line,
		Column:  pos.Column,
	})
	fmt.Print(msg)
	return fmt.Errorf("%s: %s at %d:%d", ErrorSyntax, pe.Message(), pos.Line, pos.Column)
}

// ReportError prints a caret-style diagnostic for a post-parse validation
// failure (label checks today) the same way ReportParseError does for a
// syntax error, and returns an error carrying the same message.
func ReportError(filename, source, code string, line, column int, message string) error {
	reporter := NewReporter(filename, source)
	msg := reporter.Format(Diagnostic{Code: code, Message: message, Line: line, Column: column})
	fmt.Print(msg)
	return fmt.Errorf("%s: %s at %d:%d", code, message, line, column)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package asm

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"moveorder/internal/bytecode"
	"moveorder/internal/diag"
)

var parser = buildParser()

func buildParser() *participle.Parser[File] {
	p, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	if err != nil {
		// Only possible if the grammar tags above are malformed, which would
		// be a bug in this package, not bad input.
		panic(fmt.Sprintf("asm: parser build failed: %s", err))
	}
	return p
}

// ParseString parses source (attributed to filename for diagnostics) into a
// File. On a syntax error, it prints a caret-style diagnostic and returns an
// error describing the same failure.
func ParseString(filename, source string) (*File, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, diag.ReportParseError(filename, source, err)
	}
	return file, nil
}

// ParseFunctions parses source and lowers every function it declares in one
// step — the common case for tools that only care about the bytecode, not
// the surface AST.
func ParseFunctions(filename, source string) ([]*bytecode.Function, error) {
	file, err := ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return Lower(filename, source, file)
}

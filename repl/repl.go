// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"moveorder/internal/asm"
	"moveorder/internal/reorder"
)

const PROMPT = ">> "

// Start reads fn ... { ... } blocks from in, one per blank-line-terminated
// paste, and prints each reordered and annotated back to out.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)

		var buf strings.Builder
		scanned := false
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" && buf.Len() > 0 {
				break
			}
			scanned = true
			buf.WriteString(line)
			buf.WriteString("\n")
		}
		if !scanned {
			return
		}

		fns, err := asm.ParseFunctions("repl", buf.String())
		if err != nil {
			continue
		}

		for _, fn := range fns {
			reordered, ordering, prepareUse := reorder.Reorder(fn)
			fmt.Fprint(out, asm.PrintFunction(reordered, ordering, prepareUse))
		}
	}
}

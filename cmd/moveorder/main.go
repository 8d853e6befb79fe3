// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"moveorder/internal/asm"
	"moveorder/internal/obslog"
	"moveorder/internal/reorder"
)

func main() {
	dumpDeps := flag.Bool("dump-deps", false, "annotate reordered output with dependency and Prepare-use comments")
	verbosity := flag.Int("v", 0, "commonlog verbosity (0 disables logging)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: moveorder [-dump-deps] [-v N] <file.mo>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *dumpDeps, *verbosity, os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run implements the CLI end to end against an injectable output writer, so
// it can be exercised directly by a test without going through os.Exit.
func run(path string, dumpDeps bool, verbosity int, out io.Writer) error {
	log := obslog.Configure(verbosity)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		return err
	}

	file, err := asm.ParseString(path, string(source))
	if err != nil {
		return err
	}

	fns, err := asm.Lower(path, string(source), file)
	if err != nil {
		color.Red("Failed to lower %s: %s", path, err)
		return err
	}

	for _, fn := range fns {
		log.Infof("reordering function %s (%d instructions)", fn.Name, len(fn.Code))

		reordered, ordering, prepareUse := reorder.Reorder(fn)

		if dumpDeps {
			fmt.Fprint(out, asm.PrintFunction(reordered, ordering, prepareUse))
		} else {
			fmt.Fprint(out, asm.PrintFunction(reordered, nil, nil))
		}
	}

	color.Green("✅ Successfully reordered %s", path)
	return nil
}

package asm

import (
	"fmt"
	"strings"

	"moveorder/internal/bytecode"
	"moveorder/internal/reorder"
)

// PrintFunction renders fn back into the textual assembly surface. When
// ordering or prepareUse is non-nil, each instruction line is followed by a
// `//` comment describing the annotation recorded for its (post-reorder)
// offset — this is what the CLI's -dump-deps flag and the LSP hover surface
// both build on.
//
// It reprints every Tmp referenced in fn.Code as a single `locals:` decl so
// the output reparses without a declaration-vs-use mismatch, with a
// `&mut`/plain split reconstructed from LocalTypes.IsMutableRef — the one
// per-Tmp fact bytecode.Function retains after lowering (spec.md §3). The
// original params-vs-locals split, base type names (u64, bool, ...), and
// immutable-vs-plain ref distinction are not retained by the bytecode model
// at all and so cannot be reproduced; a round trip is stable in instruction
// shape and mutable-ref markings, not byte-for-byte with the source text.
func PrintFunction(fn *bytecode.Function, ordering reorder.OrderingAnnotation, prepareUse reorder.PrepareUseMap) string {
	var b strings.Builder

	if fn.Native {
		b.WriteString("native ")
	}
	b.WriteString(fmt.Sprintf("fn %s() {\n", fn.Name))
	b.WriteString(formatLocalsDecl(fn))

	for i, instr := range fn.Code {
		offset := bytecode.Offset(i)
		b.WriteString("    ")
		b.WriteString(printInstr(instr))

		if comment := AnnotationComment(offset, ordering, prepareUse); comment != "" {
			b.WriteString("    // ")
			b.WriteString(comment)
		}
		b.WriteString("\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// AnnotationComment renders the ordering/Prepare-use annotation recorded for
// offset as the text this package's hover surface and -dump-deps output
// both show, or "" if offset has no annotation.
func AnnotationComment(offset bytecode.Offset, ordering reorder.OrderingAnnotation, prepareUse reorder.PrepareUseMap) string {
	var parts []string
	if info, ok := ordering[offset]; ok && len(info.Dependencies) > 0 {
		parts = append(parts, fmt.Sprintf("deps=%s", formatDependencySet(info.Dependencies)))
	}
	if pu, ok := prepareUse[offset]; ok {
		parts = append(parts, fmt.Sprintf("prepares use@%d pos=%d multiUse=%t", pu.Use, pu.Pos, pu.MultiUse))
	}
	return strings.Join(parts, " ")
}

// formatLocalsDecl renders a `locals:` declaration covering every Tmp
// referenced in fn.Code, or "" if fn.Code references none (an empty
// `locals:` clause is not valid grammar).
func formatLocalsDecl(fn *bytecode.Function) string {
	tmps := referencedTmps(fn)
	if len(tmps) == 0 {
		return ""
	}
	decls := make([]string, len(tmps))
	for i, t := range tmps {
		decls[i] = fmt.Sprintf("t%d: %s", t, typeNameFor(fn.Locals, t))
	}
	return "    locals: " + strings.Join(decls, ", ") + ";\n"
}

// typeNameFor reconstructs a type annotation from the one fact LocalTypes
// tracks: "any" is a placeholder base type, since the concrete one (u64,
// bool, ...) is never retained past lowering.
func typeNameFor(locals bytecode.LocalTypes, t bytecode.Tmp) string {
	if locals != nil && locals.IsMutableRef(t) {
		return "&mut any"
	}
	return "any"
}

// referencedTmps collects every Tmp fn.Code reads or writes, in ascending
// order, first-seen order broken by a final sort for determinism.
func referencedTmps(fn *bytecode.Function) []bytecode.Tmp {
	seen := map[bytecode.Tmp]bool{}
	var tmps []bytecode.Tmp
	add := func(t bytecode.Tmp) {
		if !seen[t] {
			seen[t] = true
			tmps = append(tmps, t)
		}
	}
	for _, instr := range fn.Code {
		for _, t := range instr.Sources() {
			add(t)
		}
		for _, t := range instr.Dests() {
			add(t)
		}
	}
	for i := 1; i < len(tmps); i++ {
		for j := i; j > 0 && tmps[j-1] > tmps[j]; j-- {
			tmps[j-1], tmps[j] = tmps[j], tmps[j-1]
		}
	}
	return tmps
}

func formatDependencySet(deps map[bytecode.Offset]struct{}) string {
	offs := make([]bytecode.Offset, 0, len(deps))
	for o := range deps {
		offs = append(offs, o)
	}
	for i := 1; i < len(offs); i++ {
		for j := i; j > 0 && offs[j-1] > offs[j]; j-- {
			offs[j-1], offs[j] = offs[j], offs[j-1]
		}
	}
	strs := make([]string, len(offs))
	for i, o := range offs {
		strs[i] = fmt.Sprintf("%d", o)
	}
	return "{" + strings.Join(strs, ",") + "}"
}

func printInstr(instr bytecode.Bytecode) string {
	switch v := instr.(type) {
	case *bytecode.Label:
		return fmt.Sprintf("L%d:", v.ID)
	case *bytecode.Branch:
		return fmt.Sprintf("branch t%d L%d L%d;", v.Cond, v.TrueLbl, v.FalseLbl)
	case *bytecode.Jump:
		return fmt.Sprintf("jump L%d;", v.Target)
	case *bytecode.Return:
		return fmt.Sprintf("return %s;", printTmps(v.Srcs))
	case *bytecode.Abort:
		return fmt.Sprintf("abort t%d;", v.Code)
	case *bytecode.SpecBlock:
		return "spec;"
	case *bytecode.Assign:
		return fmt.Sprintf("t%d = t%d;", v.Dest, v.Src)
	case *bytecode.Call:
		return printCall(v)
	default:
		return fmt.Sprintf("/* unknown instruction %T */", v)
	}
}

func printCall(c *bytecode.Call) string {
	var b strings.Builder
	if len(c.D) > 0 {
		b.WriteString(printTmps(c.D))
		b.WriteString(" = ")
	}
	b.WriteString(c.Op.Name)
	b.WriteString("(")
	b.WriteString(printTmps(c.S))
	b.WriteString(")")
	if c.MultiReturnOpaque {
		b.WriteString(" opaque")
	}
	if c.Op.Abortable {
		b.WriteString(" !")
	}
	b.WriteString(";")
	return b.String()
}

func printTmps(tmps []bytecode.Tmp) string {
	strs := make([]string, len(tmps))
	for i, t := range tmps {
		strs[i] = fmt.Sprintf("t%d", t)
	}
	return strings.Join(strs, ", ")
}

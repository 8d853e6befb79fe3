package reorder

import (
	"moveorder/internal/bytecode"
	"moveorder/internal/cfg"
	"moveorder/internal/diag"
	"moveorder/internal/obslog"
)

// MaxBlockSize is the largest block this pass will reorder. Blocks beyond
// it are left untouched; the 128 cap also bounds the O(N^3) transitive
// closure in constraints.go.
const MaxBlockSize = 128

// Debug enables the internal consistency assertions named by spec.md §7.
// Off by default (the pass is infallible on well-formed input and these
// checks cost O(N) to O(N^2) per block); tests turn it on.
var Debug = false

var log = obslog.Logger()

// ReorderBlock runs the full per-block pipeline of spec.md §4 over one
// basic block. It never mutates block; locals answers the one type
// question §4.4(c) needs (is a given temporary a mutable reference).
func ReorderBlock(block []bytecode.Bytecode, locals bytecode.LocalTypes) ([]bytecode.Bytecode, OrderingAnnotation, PrepareUseMap) {
	if reason, skip := shouldSkip(block); skip {
		logSkip(len(block), reason)
		passthrough := append([]bytecode.Bytecode{}, block...)
		return passthrough, OrderingAnnotation{}, PrepareUseMap{}
	}

	graph, uses := buildUseDefGraph(block)
	synthesized, prepareUse := synthesizePrepares(block, graph, uses)

	deps := buildDependenceGraph(synthesized, graph, locals)
	dfsNumberings := dfsPostOrderNumbering(synthesized, graph)

	order := selectTotalOrder(len(synthesized), deps, dfsNumberings)
	remap := buildRemapping(order)

	reordered := make([]bytecode.Bytecode, len(order))
	for newIdx, oldOffset := range order {
		reordered[newIdx] = synthesized[oldOffset]
	}

	ordering := buildOrderingAnnotation(remap, deps, dfsNumberings)
	remappedPrepareUse := remapPrepareUse(prepareUse, remap)

	if Debug {
		assertPermutation(block, reordered)
		assertBijectiveRemap(remap)
		assertNoTiedColumns(dfsNumberings)
	}

	return reordered, ordering, remappedPrepareUse
}

// shouldSkip reports the per-block skip conditions of spec.md §4.1, and why
// — the reason is informational only, logged by the caller, not an error.
func shouldSkip(block []bytecode.Bytecode) (reason string, skip bool) {
	if len(block) > MaxBlockSize {
		return "oversize block", true
	}
	if bytecode.HasSpecOnly(block) {
		return "contains a specification-only instruction", true
	}
	for _, instr := range block {
		if call, ok := instr.AsCall(); ok && call.MultiReturnOpaque {
			return "contains an opaque multi-return call", true
		}
	}
	return "", false
}

// logSkip reports a block passed through ReorderBlock unreordered. Only the
// oversize case has a diag code of its own (spec.md §4.10's E0903); the
// other skip reasons are logged without one.
func logSkip(size int, reason string) {
	if reason == "oversize block" {
		log.Warningf("[%s] %s (%d instructions): %s", diag.ErrorBlockTooLarge, reason, size, diag.Description(diag.ErrorBlockTooLarge))
		return
	}
	log.Warningf("skipping block of %d instructions unreordered: %s", size, reason)
}

// Reorder runs the pass over every basic block of fn in forward order and
// concatenates the results, rebasing per-block annotation keys to
// function-global offsets by adding the concatenated prefix length. fn is
// never mutated. Native functions, and functions containing any
// specification-only instruction, are returned unchanged with empty
// annotations (spec.md §4.1).
func Reorder(fn *bytecode.Function) (*bytecode.Function, OrderingAnnotation, PrepareUseMap) {
	if fn.Native || bytecode.HasSpecOnly(fn.Code) {
		return &bytecode.Function{
			Name:   fn.Name,
			Native: fn.Native,
			Code:   append([]bytecode.Bytecode{}, fn.Code...),
			Locals: fn.Locals,
		}, OrderingAnnotation{}, PrepareUseMap{}
	}

	ranges := cfg.BlockRanges(fn.Code)
	var newCode []bytecode.Bytecode
	ordering := OrderingAnnotation{}
	prepareUse := PrepareUseMap{}

	for _, r := range ranges {
		block := fn.Code[r.Lower : r.Upper+1]
		reorderedBlock, blockOrdering, blockPrepareUse := ReorderBlock(block, fn.Locals)

		newLower := bytecode.Offset(len(newCode))
		newCode = append(newCode, reorderedBlock...)

		for offset, info := range blockOrdering {
			ordering[offset+newLower] = info
		}
		for touchOffset, pu := range blockPrepareUse {
			prepareUse[touchOffset+newLower] = &PrepareUse{
				Use:      pu.Use + newLower,
				Pos:      pu.Pos,
				MultiUse: pu.MultiUse,
			}
		}
	}

	newFn := &bytecode.Function{
		Name:   fn.Name,
		Native: fn.Native,
		Code:   newCode,
		Locals: fn.Locals,
	}
	return newFn, ordering, prepareUse
}

package reorder

import (
	"fmt"

	"moveorder/internal/bytecode"
)

// assertPermutation panics unless every instruction of the original block
// survives into the reordered one. The reordered block may be longer (it
// also holds synthesized Prepares), and a multiset of instruction
// pointers/values is not checkable generically, so this checks the weaker
// but still load-bearing invariant: the reordered block is not shorter, and
// every instruction in the original block appears somewhere in it by
// identity of its attribute id. Only consulted when Debug is set.
func assertPermutation(original, reordered []bytecode.Bytecode) {
	if len(original) > len(reordered) {
		panic(fmt.Sprintf("reorder: block shrank from %d to %d instructions", len(original), len(reordered)))
	}
	seen := make(map[bytecode.AttrId]int, len(reordered))
	for _, instr := range reordered {
		seen[instr.AttrID()]++
	}
	for _, instr := range original {
		if seen[instr.AttrID()] == 0 {
			panic(fmt.Sprintf("reorder: instruction with attr %d missing from reordered block", instr.AttrID()))
		}
		seen[instr.AttrID()]--
	}
}

// assertBijectiveRemap panics unless remap is a bijection on [0, len(remap)).
func assertBijectiveRemap(remap []bytecode.Offset) {
	seen := make([]bool, len(remap))
	for _, newOffset := range remap {
		if int(newOffset) >= len(remap) {
			panic(fmt.Sprintf("reorder: remap target %d out of range [0,%d)", newOffset, len(remap)))
		}
		if seen[newOffset] {
			panic(fmt.Sprintf("reorder: remap is not injective, %d assigned twice", newOffset))
		}
		seen[newOffset] = true
	}
}

// assertNoTiedColumns panics if the same DFS numbering was assigned twice
// within a single run's column, which would mean dfsRecurse visited one
// node under two different run ids.
func assertNoTiedColumns(dfsNumberings [][]OffsetOpt) {
	maxCols := 0
	for _, col := range dfsNumberings {
		if len(col) > maxCols {
			maxCols = len(col)
		}
	}
	for c := 0; c < maxCols; c++ {
		seen := map[bytecode.Offset]bool{}
		for _, col := range dfsNumberings {
			if c >= len(col) || !col[c].Valid {
				continue
			}
			if seen[col[c].Offset] {
				panic(fmt.Sprintf("reorder: DFS column %d assigns numbering %d twice", c, col[c].Offset))
			}
			seen[col[c].Offset] = true
		}
	}
}

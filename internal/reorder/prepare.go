package reorder

import (
	"sort"

	"moveorder/internal/bytecode"
)

// synthesizePrepares runs both Prepare-synthesis phases of spec.md §4.3 and
// returns the block with synthesized Prepares appended, and the map from
// each Prepare's offset to the use it prepares. graph is mutated in place:
// slots that get a Prepare are updated to point at it, and a true-dependence
// edge from the Prepare to its in-block definer (when one exists) is added.
//
// Both phases append to a scratch list first and extend block only once
// they are both done, so offsets assigned mid-synthesis stay stable — an
// offset computed as "block length + scratch length so far" never shifts
// under a later append.
func synthesizePrepares(block []bytecode.Bytecode, graph UseDefGraph, uses map[useKey][]usePos) ([]bytecode.Bytecode, PrepareUseMap) {
	originalLen := bytecode.Offset(len(block))
	var scratch []bytecode.Bytecode
	prepareUse := PrepareUseMap{}
	prepareEdges := map[bytecode.Offset]bytecode.Offset{}

	nextOffset := func() bytecode.Offset {
		return originalLen + bytecode.Offset(len(scratch))
	}

	// Phase A: per-use preparation for non-last source slots.
	for i, usageInstr := range block {
		usageOffset := bytecode.Offset(i)
		sources := usageInstr.Sources()
		if len(sources) < 2 {
			continue
		}
		defs, ok := graph[usageOffset]
		if !ok {
			continue
		}
		withoutLastLen := len(defs) - 1
		for pos := 0; pos < withoutLastLen; pos++ {
			tmp := sources[pos]
			def := defs[pos]

			// A block re-run through this pass may already carry a Prepare
			// immediately ahead of this use from an earlier run (the
			// textual surface has no way to author OpPrepare directly, so
			// any Prepare found here was synthesized by a prior pass).
			// Reuse it instead of synthesizing a sibling: this is the
			// "Prepare-coalescing" spec.md §8 idempotence relies on.
			if existing, ok := existingPrepareBefore(block, usageOffset, tmp); ok {
				defs[pos] = some(existing)
				if _, already := prepareUse[existing]; !already {
					prepareUse[existing] = &PrepareUse{Use: usageOffset, Pos: pos, MultiUse: false}
				}
				continue
			}

			switch {
			case !def.Valid:
				prepOffset := nextOffset()
				scratch = append(scratch, bytecode.NewPrepare(usageInstr.AttrID(), tmp))
				defs[pos] = some(prepOffset)
				prepareUse[prepOffset] = &PrepareUse{Use: usageOffset, Pos: pos, MultiUse: false}
			case block[def.Offset].IsAssign():
				prepOffset := nextOffset()
				scratch = append(scratch, bytecode.NewPrepare(usageInstr.AttrID(), tmp))
				prepareEdges[prepOffset] = def.Offset
				defs[pos] = some(prepOffset)
				prepareUse[prepOffset] = &PrepareUse{Use: usageOffset, Pos: pos, MultiUse: false}
			}
		}
	}

	// Phase B: multi-use marking, consulting `uses` as computed before
	// phase A touched anything — never rebuild this index after phase A.
	keys := make([]useKey, 0, len(uses))
	for k := range uses {
		keys = append(keys, k)
	}
	sortUseKeys(keys)

	for _, key := range keys {
		pairs := uses[key]
		if len(pairs) <= 1 {
			continue
		}
		sorted := append([]usePos{}, pairs...)
		sortUsePositions(sorted)

		for _, up := range sorted {
			useInstr := block[up.Offset]
			sources := useInstr.Sources()
			if len(sources) == 0 || up.Pos == len(sources)-1 {
				continue // the last operand never needs a Prepare
			}
			defs, ok := graph[up.Offset]
			if !ok {
				continue
			}
			def := defs[up.Pos]
			if !def.Valid {
				continue
			}
			if def.Offset >= originalLen || isPrepareInstr(block, def.Offset) {
				// Already a Prepare (synthesized this round, or coalesced
				// from an earlier round by phase A above): just flag it as
				// serving multiple uses.
				if pu, ok := prepareUse[def.Offset]; ok {
					pu.MultiUse = true
				}
				continue
			}
			prepOffset := nextOffset()
			scratch = append(scratch, bytecode.NewPrepare(useInstr.AttrID(), key.Tmp))
			prepareEdges[prepOffset] = def.Offset
			defs[up.Pos] = some(prepOffset)
			prepareUse[prepOffset] = &PrepareUse{Use: up.Offset, Pos: up.Pos, MultiUse: true}
		}
	}

	newBlock := make([]bytecode.Bytecode, 0, len(block)+len(scratch))
	newBlock = append(newBlock, block...)
	newBlock = append(newBlock, scratch...)

	for prepOffset, defOffset := range prepareEdges {
		graph[prepOffset] = append(graph[prepOffset], some(defOffset))
	}
	return newBlock, prepareUse
}

// existingPrepareBefore reports whether block[usageOffset-1] is already a
// Prepare pseudo-instruction for tmp — the shape a prior pass's Prepare
// synthesis leaves immediately ahead of the use it prepares (see
// TestReorderBlockInsertsPrepareForUndefinedSource).
func existingPrepareBefore(block []bytecode.Bytecode, usageOffset bytecode.Offset, tmp bytecode.Tmp) (bytecode.Offset, bool) {
	if usageOffset == 0 {
		return 0, false
	}
	prev := usageOffset - 1
	if !isPrepareInstr(block, prev) {
		return 0, false
	}
	call, _ := block[prev].AsCall()
	if len(call.S) != 1 || call.S[0] != tmp {
		return 0, false
	}
	return prev, true
}

// isPrepareInstr reports whether block[offset] is a Prepare pseudo-call.
func isPrepareInstr(block []bytecode.Bytecode, offset bytecode.Offset) bool {
	if int(offset) >= len(block) {
		return false
	}
	call, ok := block[offset].AsCall()
	return ok && call.Op.Kind == bytecode.OpPrepare
}

func sortUseKeys(keys []useKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Tmp != b.Tmp {
			return a.Tmp < b.Tmp
		}
		if a.HasDef != b.HasDef {
			return !a.HasDef // "no definer" (None) sorts before any Some
		}
		if !a.HasDef {
			return false
		}
		return a.Def < b.Def
	})
}

func sortUsePositions(pos []usePos) {
	sort.Slice(pos, func(i, j int) bool {
		if pos[i].Offset != pos[j].Offset {
			return pos[i].Offset < pos[j].Offset
		}
		return pos[i].Pos < pos[j].Pos
	})
}

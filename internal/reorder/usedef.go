package reorder

import "moveorder/internal/bytecode"

// usePos names one (use offset, source position) pair.
type usePos struct {
	Offset bytecode.Offset
	Pos    int
}

// useKey groups uses of the same temporary that share the same within-block
// definer (or share "no definer", i.e. the value enters from outside the
// block). It mirrors the original pass's (TempIndex, Option<CodeOffset>)
// key: a plain struct so two keys naming the same (tmp, def) compare equal
// by value, which a pointer-based Option could not guarantee.
type useKey struct {
	Tmp    bytecode.Tmp
	HasDef bool
	Def    bytecode.Offset
}

// buildUseDefGraph walks block in forward order (spec.md §4.2), producing
// the use-def graph and the reverse use index §4.3 consumes. Destinations
// update latest-write only after a instruction's own sources are resolved,
// so a self-use (an instruction reading and writing the same temporary)
// resolves against the *previous* writer.
func buildUseDefGraph(block []bytecode.Bytecode) (UseDefGraph, map[useKey][]usePos) {
	latestWrite := map[bytecode.Tmp]bytecode.Offset{}
	graph := UseDefGraph{}
	uses := map[useKey][]usePos{}

	for i, instr := range block {
		offset := bytecode.Offset(i)
		sources := instr.Sources()
		if len(sources) > 0 {
			edges := make([]OffsetOpt, 0, len(sources))
			for pos, src := range sources {
				var def OffsetOpt
				if defOffset, ok := latestWrite[src]; ok {
					def = some(defOffset)
				}
				edges = append(edges, def)
				key := useKey{Tmp: src, HasDef: def.Valid, Def: def.Offset}
				uses[key] = append(uses[key], usePos{Offset: offset, Pos: pos})
			}
			graph[offset] = edges
		}
		for _, dest := range instr.Dests() {
			latestWrite[dest] = offset
		}
	}
	return graph, uses
}

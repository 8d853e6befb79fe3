package reorder

import "moveorder/internal/bytecode"

// buildDependenceGraph combines the four constraint families of spec.md
// §4.4 into one directed "must precede" edge set and returns its transitive
// closure. block is the post-synthesis block (original instructions plus
// any Prepares appended at the tail); graph is the use-def graph after
// Prepare synthesis has updated it.
func buildDependenceGraph(block []bytecode.Bytecode, graph UseDefGraph, locals bytecode.LocalTypes) DependenceGraph {
	edges := DependenceGraph{}
	addFalseDependencies(edges, block)
	addTrueDependencies(edges, graph)
	addRefArgDependencies(edges, block, locals)
	addNonReorderableChain(edges, block)
	transitiveClosure(edges, len(block))
	return edges
}

// addFalseDependencies adds write-after-read and write-after-write edges
// over the prefix of block that precedes its first Prepare. Prepares this
// run synthesizes are appended at the tail and are deliberately
// unconstrained by false dependence; in a block that already carries
// Prepares from an earlier run, the walk likewise stops at the first one,
// and no instruction after it gets a false-dependence edge.
func addFalseDependencies(edges DependenceGraph, block []bytecode.Bytecode) {
	readsBefore := map[bytecode.Tmp]map[bytecode.Offset]struct{}{}
	latestWrite := map[bytecode.Tmp]bytecode.Offset{}

	for i, instr := range block {
		if call, ok := instr.AsCall(); ok && call.Op.Kind == bytecode.OpPrepare {
			break
		}
		offset := bytecode.Offset(i)
		for _, tmp := range instr.Sources() {
			if readsBefore[tmp] == nil {
				readsBefore[tmp] = map[bytecode.Offset]struct{}{}
			}
			readsBefore[tmp][offset] = struct{}{}
		}
		for _, dest := range instr.Dests() {
			if readers, ok := readsBefore[dest]; ok {
				for reader := range readers {
					if reader != offset {
						edges.addEdge(reader, offset)
					}
				}
				delete(readsBefore, dest)
			}
			if prev, ok := latestWrite[dest]; ok && prev != offset {
				edges.addEdge(prev, offset)
			}
			latestWrite[dest] = offset
		}
	}
}

// addTrueDependencies adds one edge per (def, use) pair recorded in the
// use-def graph.
func addTrueDependencies(edges DependenceGraph, graph UseDefGraph) {
	for useOffset, defs := range graph {
		for _, def := range defs {
			if def.Valid {
				edges.addEdge(def.Offset, useOffset)
			}
		}
	}
}

// addRefArgDependencies keeps ordinary reads of a local from sinking past a
// borrow that aliases the same storage, and keeps two borrows of the same
// local in program order.
func addRefArgDependencies(edges DependenceGraph, block []bytecode.Bytecode, locals bytecode.LocalTypes) {
	reads := map[bytecode.Tmp]map[bytecode.Offset]struct{}{}
	refArgs := map[bytecode.Tmp]bytecode.Offset{}

	for i, instr := range block {
		offset := bytecode.Offset(i)
		if bytecode.IsRefArgProducer(instr, locals) {
			for _, src := range instr.Sources() {
				if prevReads, ok := reads[src]; ok {
					for prevRead := range prevReads {
						edges.addEdge(prevRead, offset)
					}
					delete(reads, src)
				}
				if prevRefArg, ok := refArgs[src]; ok {
					edges.addEdge(prevRefArg, offset)
				}
				refArgs[src] = offset
			}
			continue
		}
		for _, src := range instr.Sources() {
			if reads[src] == nil {
				reads[src] = map[bytecode.Offset]struct{}{}
			}
			reads[src][offset] = struct{}{}
			if prevRefArgOffset, ok := refArgs[src]; ok {
				edges.addEdge(prevRefArgOffset, offset)
			}
		}
	}
}

// addNonReorderableChain chains relatively-non-reorderable instructions
// (returns, branches, jumps, labels, aborts, aborting/ref/drop calls) into
// a fixed total order among themselves.
func addNonReorderableChain(edges DependenceGraph, block []bytecode.Bytecode) {
	var prev bytecode.Offset
	havePrev := false
	for i, instr := range block {
		if !bytecode.IsRelativelyNonReorderable(instr) {
			continue
		}
		offset := bytecode.Offset(i)
		if havePrev {
			edges.addEdge(prev, offset)
		}
		prev = offset
		havePrev = true
	}
}

// transitiveClosure applies Floyd-Warshall over n block-local offsets.
// Acceptable only because n is bounded by the 128-instruction block cap
// (spec.md §5); a sparse reachability algorithm would be needed otherwise.
func transitiveClosure(edges DependenceGraph, n int) {
	for k := 0; k < n; k++ {
		ko := bytecode.Offset(k)
		for i := 0; i < n; i++ {
			io := bytecode.Offset(i)
			if !edges.hasEdge(io, ko) {
				continue
			}
			for j := 0; j < n; j++ {
				jo := bytecode.Offset(j)
				if edges.hasEdge(ko, jo) {
					edges.addEdge(io, jo)
				}
			}
		}
	}
}

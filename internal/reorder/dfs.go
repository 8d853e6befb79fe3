package reorder

import "moveorder/internal/bytecode"

// dfsPostOrderNumbering produces one numbering column per DFS run (spec.md
// §4.5). Runs are seeded, from the end of the block backward, at each
// still-unvisited relatively-non-reorderable instruction that has at least
// one source. Each run visits its seed's transitive use-def predecessors
// and numbers them in post-order starting at 0; after a run completes,
// every row not yet as long as the longest row gets exactly one trailing
// None so all rows stay aligned.
func dfsPostOrderNumbering(block []bytecode.Bytecode, graph UseDefGraph) [][]OffsetOpt {
	n := len(block)
	columns := make([][]OffsetOpt, n)
	visitedByAnyRun := map[bytecode.Offset]bool{}

	for i := n - 1; i >= 0; i-- {
		offset := bytecode.Offset(i)
		instr := block[i]
		if visitedByAnyRun[offset] {
			continue
		}
		if !bytecode.IsRelativelyNonReorderable(instr) || len(instr.Sources()) == 0 {
			continue
		}

		visitedByThisRun := map[bytecode.Offset]bool{}
		num := 0
		dfsRecurse(offset, graph, visitedByThisRun, columns, &num)

		maxLen := len(columns[offset])
		for idx := range columns {
			if len(columns[idx]) < maxLen {
				columns[idx] = append(columns[idx], none)
			}
		}
		for o := range visitedByThisRun {
			visitedByAnyRun[o] = true
		}
	}
	return columns
}

func dfsRecurse(node bytecode.Offset, graph UseDefGraph, visited map[bytecode.Offset]bool, columns [][]OffsetOpt, num *int) {
	if visited[node] {
		return
	}
	visited[node] = true
	for _, dep := range graph[node] {
		if dep.Valid {
			dfsRecurse(dep.Offset, graph, visited, columns, num)
		}
	}
	columns[node] = append(columns[node], some(bytecode.Offset(*num)))
	*num++
}

package reorder

import (
	"sort"

	"moveorder/internal/bytecode"
)

// selectTotalOrder produces a permutation of [0, n) per spec.md §4.6: a
// stable comparator sort where dependence-closure edges dominate, DFS
// numbering columns break ties, and original offset is the final
// tiebreaker. The comparator is total precisely because the dependence
// closure is a DAG by construction (spec.md §9).
func selectTotalOrder(n int, deps DependenceGraph, dfsNumberings [][]OffsetOpt) []bytecode.Offset {
	order := make([]bytecode.Offset, n)
	for i := range order {
		order[i] = bytecode.Offset(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lessOffset(order[i], order[j], deps, dfsNumberings)
	})
	return order
}

func lessOffset(a, b bytecode.Offset, deps DependenceGraph, dfsNumberings [][]OffsetOpt) bool {
	if deps.hasEdge(a, b) {
		return true
	}
	if deps.hasEdge(b, a) {
		return false
	}

	va, vb := dfsNumberings[a], dfsNumberings[b]
	for i := 0; i < len(va) && i < len(vb); i++ {
		if va[i].Valid && vb[i].Valid {
			return va[i].Offset < vb[i].Offset
		}
	}

	if c := compareOffsetOptVectors(va, vb); c != 0 {
		return c < 0
	}
	return a < b
}

// compareOffsetOptVectors lexicographically compares two DFS numbering
// columns, using None < Some(x) < Some(y) (x<y) per element, falling back
// to length when one vector is a prefix of the other.
func compareOffsetOptVectors(a, b []OffsetOpt) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareOffsetOpt(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func compareOffsetOpt(a, b OffsetOpt) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	default:
		return 0
	}
}

// Package reorder implements the per-basic-block instruction reordering
// pass: it arranges the operands of a stackless three-address bytecode
// block to minimize spill/reload traffic on a downstream stack VM, and
// synthesizes the Prepare pseudo-instructions and annotations a stack-VM
// code generator needs to act on the result.
//
// The pass is split into the stages described by spec.md §4: use-def graph
// construction (usedef.go), Prepare synthesis (prepare.go), dependence
// constraint construction (constraints.go), DFS post-order numbering
// (dfs.go), total-order selection (selector.go), and annotation emission
// (annotate.go). driver.go wires these per block and across a function.
package reorder

import "moveorder/internal/bytecode"

// OffsetOpt is an optional bytecode.Offset, compared and used as a map key
// by value — unlike a bare pointer, two OffsetOpt values holding the same
// offset always compare equal, matching Option<CodeOffset>'s value
// semantics in the pass this package is modeled on.
type OffsetOpt struct {
	Valid  bool
	Offset bytecode.Offset
}

func some(o bytecode.Offset) OffsetOpt { return OffsetOpt{Valid: true, Offset: o} }

var none = OffsetOpt{}

// UseDefGraph maps an instruction's offset to one optional definer offset
// per source operand, positionally aligned with that instruction's source
// list. A missing map entry means the instruction has no sources.
type UseDefGraph map[bytecode.Offset][]OffsetOpt

// PrepareUse records which use a synthesized Prepare instruction is
// preparing: the use's offset, the positional source slot it feeds, and
// whether the prepared definition is consumed by more than one use.
type PrepareUse struct {
	Use      bytecode.Offset
	Pos      int
	MultiUse bool
}

// PrepareUseMap maps a Prepare's offset to the PrepareUse describing it.
type PrepareUseMap map[bytecode.Offset]*PrepareUse

// DependenceGraph is a directed "must precede" edge set over block-local
// offsets: DependenceGraph[a][b] present means a must be emitted before b.
type DependenceGraph map[bytecode.Offset]map[bytecode.Offset]struct{}

func (g DependenceGraph) addEdge(a, b bytecode.Offset) {
	m, ok := g[a]
	if !ok {
		m = map[bytecode.Offset]struct{}{}
		g[a] = m
	}
	m[b] = struct{}{}
}

func (g DependenceGraph) hasEdge(a, b bytecode.Offset) bool {
	m, ok := g[a]
	if !ok {
		return false
	}
	_, has := m[b]
	return has
}

// OrderInfo is the per-instruction diagnostic payload of an
// OrderingAnnotation: the raw (pre-remap) dependence-closure successor set
// computed for this node, and its DFS post-order numbering columns.
type OrderInfo struct {
	Dependencies map[bytecode.Offset]struct{}
	DFSNumbering []OffsetOpt
}

// OrderingAnnotation maps a post-reorder offset to the OrderInfo computed
// for the instruction that now sits there.
type OrderingAnnotation map[bytecode.Offset]OrderInfo

// Package bytecode models the stackless three-address bytecode of a single
// function: the stable input/output contract the reordering pass operates
// on. It intentionally knows nothing about parsing, type checking, or
// execution — those are external collaborators (see internal/asm for the
// textual surface this repo uses to exercise it).
package bytecode

// Offset is a non-negative index into a function's instruction list.
// Offsets are block-local while a block is being processed and rebased to
// function-global offsets when blocks are concatenated back together.
type Offset uint16

// Tmp is an opaque local-variable identifier. The reordering pass never
// interprets a Tmp beyond equality and an IsMutableRef lookup.
type Tmp uint16

// AttrId is an opaque per-instruction attribute handle, copied verbatim
// onto any instruction synthesized from an existing one (e.g. Prepare).
type AttrId uint32

// LabelID names a basic block entry point referenced by Branch and Jump.
type LabelID uint32

// LocalTypes answers the one type question the pass needs: whether a local
// is declared as a mutable reference. Everything else about a Tmp's type is
// irrelevant to reordering.
type LocalTypes interface {
	IsMutableRef(t Tmp) bool
}

// MapLocalTypes is the simplest LocalTypes implementation: an explicit set
// of mutable-reference locals, populated by the assembly parser from
// `&mut` parameter/local declarations.
type MapLocalTypes map[Tmp]bool

func (m MapLocalTypes) IsMutableRef(t Tmp) bool { return m[t] }

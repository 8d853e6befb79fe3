package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moveorder/internal/bytecode"
)

func TestBuildRemappingIsInverseOfOrder(t *testing.T) {
	order := []bytecode.Offset{2, 0, 1}
	remap := buildRemapping(order)
	// order[newIdx] = oldOffset, remap[oldOffset] = newIdx
	for newIdx, oldOffset := range order {
		assert.Equal(t, bytecode.Offset(newIdx), remap[oldOffset])
	}
}

func TestBuildOrderingAnnotationKeysByNewOffsetKeepsRawDependencies(t *testing.T) {
	deps := DependenceGraph{}
	deps.addEdge(0, 1) // block-local, pre-remap offsets
	dfsNumberings := [][]OffsetOpt{{some(0)}, {some(1)}}
	remap := []bytecode.Offset{1, 0} // old 0 -> new 1, old 1 -> new 0

	ordering := buildOrderingAnnotation(remap, deps, dfsNumberings)

	info1 := ordering[1] // instruction originally at offset 0
	_, has1 := info1.Dependencies[1]
	assert.True(t, has1, "dependencies must stay expressed in pre-remap offsets")

	info0 := ordering[0]
	assert.Equal(t, []OffsetOpt{some(1)}, info0.DFSNumbering)
}

func TestRemapPrepareUse(t *testing.T) {
	pu := PrepareUseMap{
		2: {Use: 0, Pos: 0, MultiUse: true},
	}
	remap := []bytecode.Offset{1, 2, 0} // old 2 -> new 0, old 0 -> new 1
	out := remapPrepareUse(pu, remap)

	entry, ok := out[0]
	assert.True(t, ok)
	assert.Equal(t, bytecode.Offset(1), entry.Use)
	assert.True(t, entry.MultiUse)
}

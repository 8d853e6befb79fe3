package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moveorder/internal/bytecode"
)

func TestBuildUseDefGraphNoDefiner(t *testing.T) {
	block := []bytecode.Bytecode{
		&bytecode.Call{Attr: 1, D: []bytecode.Tmp{2}, Op: bytecode.Operation{Kind: bytecode.OpGeneric}, S: []bytecode.Tmp{0}},
	}
	graph, uses := buildUseDefGraph(block)
	require.Contains(t, graph, bytecode.Offset(0))
	assert.Equal(t, []OffsetOpt{none}, graph[0])

	key := useKey{Tmp: 0, HasDef: false}
	require.Contains(t, uses, key)
	assert.Equal(t, []usePos{{Offset: 0, Pos: 0}}, uses[key])
}

func TestBuildUseDefGraphSelfUseResolvesToPreviousWriter(t *testing.T) {
	// tmp0 is first written by instr 0, then instr 1 reads and rewrites it:
	// instr1's source must resolve to instr0, not to itself.
	block := []bytecode.Bytecode{
		&bytecode.Assign{Attr: 1, Dest: 0, Src: 9},
		&bytecode.Assign{Attr: 2, Dest: 0, Src: 0},
	}
	graph, _ := buildUseDefGraph(block)
	require.Contains(t, graph, bytecode.Offset(1))
	assert.Equal(t, []OffsetOpt{some(0)}, graph[1])
}

func TestBuildUseDefGraphLaterWriteShadowsEarlier(t *testing.T) {
	block := []bytecode.Bytecode{
		&bytecode.Assign{Attr: 1, Dest: 0, Src: 9},
		&bytecode.Assign{Attr: 2, Dest: 0, Src: 8},
		&bytecode.Call{Attr: 3, D: []bytecode.Tmp{1}, Op: bytecode.Operation{Kind: bytecode.OpGeneric}, S: []bytecode.Tmp{0}},
	}
	graph, _ := buildUseDefGraph(block)
	assert.Equal(t, []OffsetOpt{some(1)}, graph[2])
}

package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moveorder/internal/bytecode"
)

func TestDFSPostOrderNumberingChain(t *testing.T) {
	// instr2 depends on instr1 depends on instr0; instr2 is the only
	// non-reorderable seed (an Abort).
	block := []bytecode.Bytecode{
		&bytecode.Assign{Attr: 1, Dest: 0, Src: 9},
		&bytecode.Assign{Attr: 2, Dest: 1, Src: 0},
		&bytecode.Abort{Attr: 3, Code: 1},
	}
	graph, _ := buildUseDefGraph(block)
	cols := dfsPostOrderNumbering(block, graph)

	assert.Equal(t, some(bytecode.Offset(0)), cols[0][0])
	assert.Equal(t, some(bytecode.Offset(1)), cols[1][0])
	assert.Equal(t, some(bytecode.Offset(2)), cols[2][0])
}

func TestDFSPostOrderNumberingIndependentSeedsGetOwnColumns(t *testing.T) {
	block := []bytecode.Bytecode{
		&bytecode.Abort{Attr: 1, Code: 9},
		&bytecode.Abort{Attr: 2, Code: 8},
	}
	graph, _ := buildUseDefGraph(block)
	cols := dfsPostOrderNumbering(block, graph)
	assert.Len(t, cols[0], 2)
	assert.Len(t, cols[1], 2)
}

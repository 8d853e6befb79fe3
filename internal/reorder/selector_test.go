package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moveorder/internal/bytecode"
)

func TestLessOffsetDependenceEdgeDominates(t *testing.T) {
	deps := DependenceGraph{}
	deps.addEdge(2, 0)
	dfs := [][]OffsetOpt{{some(5)}, {some(0)}, {some(9)}}
	assert.True(t, lessOffset(2, 0, deps, dfs))
	assert.False(t, lessOffset(0, 2, deps, dfs))
}

func TestLessOffsetFallsBackToDFSColumn(t *testing.T) {
	deps := DependenceGraph{}
	dfs := [][]OffsetOpt{{some(1)}, {some(0)}}
	assert.False(t, lessOffset(0, 1, deps, dfs))
	assert.True(t, lessOffset(1, 0, deps, dfs))
}

func TestLessOffsetFinalTiebreakIsOriginalOffset(t *testing.T) {
	deps := DependenceGraph{}
	dfs := [][]OffsetOpt{{none}, {none}}
	assert.True(t, lessOffset(0, 1, deps, dfs))
	assert.False(t, lessOffset(1, 0, deps, dfs))
}

func TestSelectTotalOrderIsStableAndComplete(t *testing.T) {
	// Edge between the two lowest offsets only, so the override can't be
	// straddled by the third (untouched) element's natural position.
	deps := DependenceGraph{}
	deps.addEdge(1, 0)
	dfs := [][]OffsetOpt{{none}, {none}, {none}}
	order := selectTotalOrder(3, deps, dfs)
	assert.ElementsMatch(t, []bytecode.Offset{0, 1, 2}, order)

	pos := map[bytecode.Offset]int{}
	for i, o := range order {
		pos[o] = i
	}
	assert.Less(t, pos[1], pos[0])
}

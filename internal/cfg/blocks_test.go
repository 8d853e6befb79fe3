package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moveorder/internal/bytecode"
)

func TestBlockRangesStraightLine(t *testing.T) {
	code := []bytecode.Bytecode{
		&bytecode.Assign{Attr: 1, Dest: 0, Src: 1},
		&bytecode.Assign{Attr: 2, Dest: 2, Src: 0},
		&bytecode.Return{Attr: 3, Srcs: []bytecode.Tmp{2}},
	}
	ranges := BlockRanges(code)
	assert.Equal(t, []Range{{Lower: 0, Upper: 2}}, ranges)
	assert.Equal(t, 3, ranges[0].Len())
}

func TestBlockRangesBranchAndLabel(t *testing.T) {
	code := []bytecode.Bytecode{
		&bytecode.Branch{Attr: 1, Cond: 0, TrueLbl: 1, FalseLbl: 2},
		&bytecode.Label{Attr: 2, ID: 1},
		&bytecode.Jump{Attr: 3, Target: 2},
		&bytecode.Label{Attr: 4, ID: 2},
		&bytecode.Return{Attr: 5},
	}
	ranges := BlockRanges(code)
	assert.Equal(t, []Range{
		{Lower: 0, Upper: 0},
		{Lower: 1, Upper: 2},
		{Lower: 3, Upper: 4},
	}, ranges)
}

func TestBlockRangesEmpty(t *testing.T) {
	assert.Nil(t, BlockRanges(nil))
}

package repl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartReordersPastedFunction(t *testing.T) {
	in := strings.NewReader("fn add_two(t0: u64, t1: u64) {\n    locals: t2: u64;\n    t2 = add(t0, t1);\n    return t2;\n}\n\n")
	var out strings.Builder

	Start(in, &out)

	assert.Contains(t, out.String(), "fn add_two")
	assert.Contains(t, out.String(), "return t2;")
}

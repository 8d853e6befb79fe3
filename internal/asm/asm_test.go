package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moveorder/internal/bytecode"
	"moveorder/internal/diag"
	"moveorder/internal/reorder"
)

const sample = `
fn add_two(t0: u64, t1: u64) {
    locals: t2: u64;
    t2 = add(t0, t1);
    return t2;
}
`

func TestParseAndLowerFunction(t *testing.T) {
	fns, err := ParseFunctions("sample.mo", sample)
	require.NoError(t, err)
	require.Len(t, fns, 1)

	fn := fns[0]
	assert.Equal(t, "add_two", fn.Name)
	assert.False(t, fn.Native)
	require.Len(t, fn.Code, 2)

	call, ok := fn.Code[0].AsCall()
	require.True(t, ok)
	assert.Equal(t, "add", call.Op.Name)
	assert.Equal(t, bytecode.OpGeneric, call.Op.Kind)
	assert.Equal(t, []bytecode.Tmp{0, 1}, call.Sources())
	assert.Equal(t, []bytecode.Tmp{2}, call.Dests())

	ret, ok := fn.Code[1].(*bytecode.Return)
	require.True(t, ok)
	assert.Equal(t, []bytecode.Tmp{2}, ret.Srcs)
}

func TestParseRefTypesAndNative(t *testing.T) {
	src := `
native fn borrow(t0: &mut u64, t1: &u64) {
    t2 = freeze_ref(t0);
}
`
	fns, err := ParseFunctions("sample.mo", src)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.True(t, fns[0].Native)
	assert.True(t, fns[0].Locals.IsMutableRef(0))
	assert.False(t, fns[0].Locals.IsMutableRef(1))
}

func TestParseControlFlow(t *testing.T) {
	src := `
fn choose(t0: bool) {
    branch t0 L1 L2;
L1:
    return t0;
L2:
    abort t0;
}
`
	fns, err := ParseFunctions("sample.mo", src)
	require.NoError(t, err)
	code := fns[0].Code
	require.Len(t, code, 5)
	assert.True(t, code[0].IsBranch())
	assert.True(t, code[1].IsLabel())
	assert.True(t, code[2].IsReturn())
	assert.True(t, code[3].IsLabel())
	assert.True(t, code[4].IsAbort())
}

func TestParseSyntaxErrorIsReported(t *testing.T) {
	_, err := ParseFunctions("bad.mo", "fn broken(")
	assert.Error(t, err)
}

func TestParseUnknownBranchTargetIsReported(t *testing.T) {
	src := `
fn choose(t0: bool) {
    branch t0 L1 L2;
L1:
    return t0;
}
`
	_, err := ParseFunctions("bad.mo", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), diag.ErrorUnknownLabel)
}

func TestParseUnknownJumpTargetIsReported(t *testing.T) {
	src := `
fn choose(t0: bool) {
    jump L9;
}
`
	_, err := ParseFunctions("bad.mo", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), diag.ErrorUnknownLabel)
}

func TestParseDuplicateLabelIsReported(t *testing.T) {
	src := `
fn choose(t0: bool) {
L1:
    return t0;
L1:
    return t0;
}
`
	_, err := ParseFunctions("bad.mo", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), diag.ErrorDuplicateLabel)
}

func TestPrintFunctionRoundTripsStructure(t *testing.T) {
	fns, err := ParseFunctions("sample.mo", sample)
	require.NoError(t, err)

	out := PrintFunction(fns[0], reorder.OrderingAnnotation{}, reorder.PrepareUseMap{})
	reparsed, err := ParseFunctions("printed.mo", out)
	require.NoError(t, err)
	require.Len(t, reparsed, 1)
	assert.Equal(t, fns[0].Name, reparsed[0].Name)
	assert.Len(t, reparsed[0].Code, len(fns[0].Code))
}

func TestPrintFunctionRoundTripsMutableRefMarkings(t *testing.T) {
	src := `
native fn borrow(t0: &mut u64, t1: &u64) {
    t2 = freeze_ref(t0);
}
`
	fns, err := ParseFunctions("sample.mo", src)
	require.NoError(t, err)
	require.True(t, fns[0].Locals.IsMutableRef(0))

	out := PrintFunction(fns[0], reorder.OrderingAnnotation{}, reorder.PrepareUseMap{})
	assert.Contains(t, out, "locals:")

	reparsed, err := ParseFunctions("printed.mo", out)
	require.NoError(t, err)
	require.Len(t, reparsed, 1)
	assert.True(t, reparsed[0].Locals.IsMutableRef(0), "mutable-ref marking on t0 must survive a print/reparse round trip")
	assert.False(t, reparsed[0].Locals.IsMutableRef(1))
}

func TestPrintFunctionIncludesAnnotationComments(t *testing.T) {
	fns, err := ParseFunctions("sample.mo", sample)
	require.NoError(t, err)

	ordering := reorder.OrderingAnnotation{
		0: {Dependencies: map[bytecode.Offset]struct{}{1: {}}},
	}
	out := PrintFunction(fns[0], ordering, reorder.PrepareUseMap{})
	assert.Contains(t, out, "deps={1}")
}

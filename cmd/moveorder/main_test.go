package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smokeSource = `
fn add_two(t0: u64, t1: u64) {
    locals: t2: u64;
    t2 = add(t0, t1);
    return t2;
}
`

func TestRunReordersFileAndPrintsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.mo")
	require.NoError(t, os.WriteFile(path, []byte(smokeSource), 0o644))

	var out strings.Builder
	err := run(path, false, 0, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "fn add_two")
	assert.Contains(t, out.String(), "t2 = add(t0, t1);")
}

func TestRunDumpDepsAnnotatesPrepareUse(t *testing.T) {
	src := `
fn needs_prepare(t0: u64, t1: u64) {
    locals: t2: u64;
    t2 = add(t0, t1);
    return t2;
}
`
	path := filepath.Join(t.TempDir(), "prepare.mo")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var out strings.Builder
	err := run(path, true, 0, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "prepares use@")
}

func TestRunReportsSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mo")
	require.NoError(t, os.WriteFile(path, []byte("fn broken("), 0o644))

	var out strings.Builder
	err := run(path, false, 0, &out)
	assert.Error(t, err)
}

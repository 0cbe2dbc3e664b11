package mangle_test

import (
	"testing"

	"github.com/agenthands/peregrine/pkg/compiler/mangle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservedPassthrough(t *testing.T) {
	tbl := mangle.New()
	assert.Equal(t, "printf", tbl.Resolve("printf"))
	assert.Equal(t, "error", tbl.Resolve("error"))
	assert.True(t, tbl.Contains("printf"))
}

func TestLocalMangling(t *testing.T) {
	tbl := mangle.New()
	tbl.SetLocal("x")
	assert.Equal(t, mangle.LocalPrefix+"x", tbl.Resolve("x"))
}

func TestGlobalMangling(t *testing.T) {
	tbl := mangle.New()
	tbl.SetGlobal("x", mangle.LocalPrefix+"file____x")
	assert.Equal(t, mangle.LocalPrefix+"file____x", tbl.Resolve("x"))
}

func TestLocalShadowsGlobal(t *testing.T) {
	tbl := mangle.New()
	tbl.SetGlobal("x", "GLOBAL_X")
	tbl.SetLocal("x")
	assert.Equal(t, mangle.LocalPrefix+"x", tbl.Resolve("x"))
}

func TestScopedRestoreIsBitIdentical(t *testing.T) {
	tbl := mangle.New()
	tbl.SetLocal("outer")
	before := tbl.Snapshot()

	err := tbl.WithLocalScope(func() error {
		tbl.SetLocal("inner")
		require.True(t, tbl.Contains("inner"))
		return nil
	})
	require.NoError(t, err)

	assert.False(t, tbl.Contains("inner"), "inner local must not leak past its scope")
	after := tbl.Snapshot()
	assert.Equal(t, before, after)
}

func TestScopedRestoreOnError(t *testing.T) {
	tbl := mangle.New()
	before := tbl.Snapshot()

	err := tbl.WithLocalScope(func() error {
		tbl.SetLocal("leaky")
		return assertErr
	})
	require.Error(t, err)
	assert.Equal(t, before, tbl.Snapshot(), "restore must happen on error exit too")
}

var assertErr = errSentinel("boom")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }

func TestFrameLookupAscendsChain(t *testing.T) {
	root := mangle.NewFrame(nil)
	root.Define("x", 1)
	child := mangle.NewFrame(root)
	child.Define("y", 2)

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = root.Lookup("y")
	assert.False(t, ok, "parent must not see child bindings")
}

func TestFrameDefineRejectsRedefinition(t *testing.T) {
	f := mangle.NewFrame(nil)
	require.True(t, f.Define("x", 1))
	assert.False(t, f.Define("x", 2))
}

func TestFrameReassignRewritesNearestBinding(t *testing.T) {
	root := mangle.NewFrame(nil)
	root.Define("x", 1)
	child := mangle.NewFrame(root)

	require.True(t, child.Reassign("x", 99))
	v, _ := root.Lookup("x")
	assert.Equal(t, 99, v)
}

func TestFrameReassignUnknownFails(t *testing.T) {
	f := mangle.NewFrame(nil)
	assert.False(t, f.Reassign("never-defined", 1))
}

package diagnostics_test

import (
	"testing"

	"github.com/agenthands/peregrine/pkg/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAccumulatesAndReportsInOrder(t *testing.T) {
	sink := diagnostics.NewSink("main.pe")
	assert.False(t, sink.HasErrors())

	sink.Report(1, 1, "x = ", "unexpected end of expression")
	sink.Report(3, 5, "def f(", "expected ')'")

	require.True(t, sink.HasErrors())
	ds := sink.Diagnostics()
	require.Len(t, ds, 2)
	assert.Equal(t, "main.pe", ds[0].File)
	assert.Equal(t, 1, ds[0].Line)
	assert.Equal(t, "expected ')'", ds[1].Message)
}

func TestSinkErrReturnsNilWhenEmpty(t *testing.T) {
	sink := diagnostics.NewSink("main.pe")
	assert.NoError(t, sink.Err())
}

func TestSinkErrWrapsAllDiagnostics(t *testing.T) {
	sink := diagnostics.NewSink("main.pe")
	sink.Report(1, 1, "bad", "boom")
	err := sink.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

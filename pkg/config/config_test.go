package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agenthands/peregrine/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), opts)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peregrine.yaml")
	content := "verbose: true\nextra_reserved:\n  - malloc\n  - free\noutput_style: allman\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, opts.Verbose)
	assert.Equal(t, []string{"malloc", "free"}, opts.ExtraReserved)
	assert.Equal(t, "allman", opts.OutputStyle)
}

// Package config loads the compiler's invocation options from an
// optional peregrine.yaml project file. The CLI (see cmd/peregrine)
// takes these options only from the file; it has no flags that
// override individual values.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Options controls one compilation run.
type Options struct {
	// Verbose enables logrus debug-level logging in the CLI and the
	// code generator (one entry per lowered program; function and
	// class lowerings are not traced).
	Verbose bool `yaml:"verbose"`

	// ExtraReserved extends the mangler's reserved passthrough set
	// beyond the spec default of {printf, error}.
	ExtraReserved []string `yaml:"extra_reserved"`

	// OutputStyle is reserved for future target-text formatting
	// knobs (indentation width, brace style); unused by the generator
	// today, carried through so a config file's value round-trips
	// without data loss.
	OutputStyle string `yaml:"output_style"`
}

// Default returns the zero-config defaults: no verbose tracing, no
// extra reserved names, the original's brace style.
func Default() Options {
	return Options{OutputStyle: "k&r"}
}

// Load reads Options from a YAML file at path. A missing file is not an
// error — it yields Default().
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

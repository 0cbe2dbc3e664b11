package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agenthands/peregrine/pkg/compiler/codegen"
	"github.com/agenthands/peregrine/pkg/compiler/lexer"
	"github.com/agenthands/peregrine/pkg/compiler/parser"
	"github.com/agenthands/peregrine/pkg/config"
	"github.com/agenthands/peregrine/pkg/diagnostics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "peregrine",
		Short: "peregrine compiles Peregrine source into target-text",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a peregrine.yaml config file")

	root.AddCommand(newBuildCmd(&cfgPath))
	root.AddCommand(newCheckCmd(&cfgPath))
	return root
}

func loadOptions(cfgPath string) (config.Options, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func newBuildCmd(cfgPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "build <source.pe>",
		Short: "Lower a source file into target text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(*cfgPath)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return build(args[0], w, opts)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (defaults to stdout)")
	return cmd
}

func newCheckCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <source.pe>",
		Short: "Parse a source file and report diagnostics without lowering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(*cfgPath)
			if err != nil {
				return err
			}
			return check(args[0], opts)
		},
	}
}

func build(path string, w io.Writer, opts config.Options) error {
	log := newLogger(opts.Verbose)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	toks := lexer.Tokenize(src)
	p := parser.New(toks, path)
	prog := p.Parse()
	if p.Sink().HasErrors() {
		renderDiagnostics(p.Sink().Diagnostics())
		return fmt.Errorf("parsing %s: %d diagnostic(s)", path, len(p.Sink().Diagnostics()))
	}

	log.WithField("file", path).Debug("parsed, lowering")
	return codegen.Generate(w, prog, filepath.Base(path), opts.Verbose, opts.ExtraReserved)
}

func check(path string, opts config.Options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	toks := lexer.Tokenize(src)
	p := parser.New(toks, path)
	p.Parse()

	diags := p.Sink().Diagnostics()
	if len(diags) == 0 {
		fmt.Println("ok")
		return nil
	}
	renderDiagnostics(diags)
	return fmt.Errorf("%d diagnostic(s)", len(diags))
}

func renderDiagnostics(diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Package codegen walks an *ast.Program and lowers it to C-like target
// text via a tree-walking visitor, grounded on the original compiler's
// single-pass recursive accept()/visit() generator. Where the original
// threads a handful of boolean flags and a global output stream
// through every visit call, the Go port collects them on a Generator
// receiver — same control flow, no global mutable state.
package codegen

import (
	"io"
	"strings"

	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/agenthands/peregrine/pkg/compiler/mangle"
	"github.com/sirupsen/logrus"
)

// Generator lowers one parsed file to its target-text form.
type Generator struct {
	out      io.Writer
	mangler  *mangle.Table
	filename string
	global   string // sanitized per-file prefix used for global symbol mangling

	// isFuncDef is set for the run of the outermost function body being
	// lowered, so a decorator wrapping a nested def knows whether it's
	// already inside one (and must not emit "int main" twice, etc).
	isFuncDef bool
	isClass   bool

	// isDefine marks the single identifier occurrence that introduces a
	// binding (a parameter name, a variable's name slot, a function's
	// own name) so the mangler registers it as local even when a
	// same-named global already exists — local declarations shadow.
	isDefine bool

	// isRef marks identifier/member positions that must be written with
	// the local mangle prefix regardless of the mangler's own tables —
	// set for the member side of a dot or arrow access, and cleared
	// again for subscript keys and call arguments nested inside it.
	isRef bool

	// isDotExpr suppresses the enum-qualified-access special case for
	// an already-processed owner in a chained a.b.c lowering.
	isDotExpr bool

	// local, while true, makes the identifier visitor register
	// first-seen names as locals rather than file-global.
	local bool

	enumNames    []string
	currEnumName string

	currentReturnTypes []ast.Expr

	save bool
	buf  strings.Builder

	log *logrus.Logger
}

// New creates a Generator writing lowered text to w. verbose turns on
// logrus debug-level logging, which records the start of program
// lowering; individual function and class lowerings are not traced.
// extraReserved extends the mangler's passthrough set beyond the spec
// default of {printf, error}.
func New(w io.Writer, filename string, verbose bool, extraReserved []string) *Generator {
	m := mangle.New()
	m.AddReserved(extraReserved...)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return &Generator{
		out:      w,
		mangler:  m,
		filename: filename,
		global:   sanitizeGlobalName(filename),
		log:      log,
	}
}

// sanitizeGlobalName turns a filename into a valid identifier fragment
// by replacing path/extension separators with a fixed marker — the
// same transform the original applies before using a filename as a
// global-symbol prefix.
func sanitizeGlobalName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch c {
		case '\\', '/', '.':
			b.WriteString("____")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// write emits code either to the real output or, while capturing a
// decorator's inner function literal, to the in-memory buffer.
func (g *Generator) write(code string) {
	if g.save {
		g.buf.WriteString(code)
	} else {
		io.WriteString(g.out, code)
	}
}

// captured runs fn with output redirected to a fresh buffer and
// returns everything fn wrote, restoring the previous redirection
// state (which may itself have been a capture, for nested decorator
// chains) afterward.
func (g *Generator) captured(fn func()) string {
	prevSave := g.save
	prevBuf := g.buf

	g.save = true
	g.buf = strings.Builder{}
	fn()
	result := g.buf.String()

	g.save = prevSave
	g.buf = prevBuf
	return result
}

package codegen

import (
	"io"

	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/pkg/errors"
)

// preamble is emitted before any lowered statement: the two headers
// every generated translation unit needs, and the fixed error enum
// raise/assert lowering throws values from.
const preamble = "#include <cstdio>\n#include <functional>\ntypedef enum{error________PEREGRINE____PEREGRINE____AssertionError,error________PEREGRINE____PEREGRINE____ZeroDivisionError} error;\n"

// Generate lowers prog to w. filename is stamped into assertion
// messages and used to derive the per-file global-mangling prefix.
func Generate(w io.Writer, prog *ast.Program, filename string, verbose bool, extraReserved []string) error {
	g := New(w, filename, verbose, extraReserved)
	if err := g.genProgram(prog); err != nil {
		return errors.Wrapf(err, "generating code for %s", filename)
	}
	return nil
}

func (g *Generator) genProgram(prog *ast.Program) error {
	g.write(preamble)
	g.log.WithField("file", g.filename).Debug("lowering program")

	for _, stmt := range prog.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
		g.write(";\n")
	}
	return nil
}

// genBlock lowers an indented block's statements, one per output
// line, each terminated with ";\n" the same way the top-level program
// is — the original's BlockStatement visitor does the same, plus a
// fixed four-space indent that Go's generator drops in favor of the
// structural braces already carrying the nesting.
func (g *Generator) genBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
		g.write(";\n")
	}
	return nil
}

func (g *Generator) genStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.NoLiteral:
		return nil
	case *ast.Block:
		return g.genBlock(s)
	case *ast.Variable:
		return g.genVariable(s)
	case *ast.Const:
		return g.genConst(s)
	case *ast.TypeDef:
		return g.genTypeDef(s)
	case *ast.FunctionDef:
		return g.genFunctionDef(s)
	case *ast.ClassDef:
		return g.genClassDef(s)
	case *ast.Union:
		return g.genUnion(s)
	case *ast.Enum:
		return g.genEnum(s)
	case *ast.If:
		return g.genIf(s)
	case *ast.While:
		return g.genWhile(s)
	case *ast.For:
		return g.genFor(s)
	case *ast.Match:
		return g.genMatch(s)
	case *ast.Scope:
		return g.genScope(s)
	case *ast.With:
		return g.genWith(s)
	case *ast.TryExcept:
		return g.genTryExcept(s)
	case *ast.Return:
		g.genReturn(s)
		return nil
	case *ast.Break:
		g.write("break")
		return nil
	case *ast.Continue:
		g.write("continue")
		return nil
	case *ast.Pass:
		g.write("\n//pass")
		return nil
	case *ast.Raise:
		g.genRaise(s)
		return nil
	case *ast.Assert:
		g.genAssert(s)
		return nil
	case *ast.Decorator:
		return g.genDecorator(s)
	case *ast.Static:
		g.write("static ")
		return g.genStmt(s.Body)
	case *ast.Inline:
		g.write("inline ")
		return g.genStmt(s.Body)
	case *ast.Export:
		return g.genExport(s)
	case *ast.Import:
		return nil
	case *ast.MultipleAssign:
		g.genMultipleAssign(s)
		return nil
	case *ast.AugAssign:
		g.genAugAssign(s)
		return nil
	case *ast.ExprStatement:
		g.genExpr(s.Value)
		return nil
	default:
		return errors.Errorf("codegen: no lowering for statement type %T", stmt)
	}
}

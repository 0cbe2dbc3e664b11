package codegen

import "github.com/agenthands/peregrine/pkg/compiler/ast"

// genDecorator folds a chain of decorators around a function body into
// nested calls: `@a\n@b\ndef f(): ...` lowers to a reassignment of f's
// mangled name to `a(b(<original f as a lambda>))`. The original
// function body is captured to a string via the save buffer so it can
// be re-emitted as an anonymous lambda literal passed to the
// innermost decorator, then each decorator wraps the previous result
// from the inside out.
func (g *Generator) genDecorator(d *ast.Decorator) error {
	def, static := unwrapDecoratedFunc(d.Body)
	if def == nil {
		return g.genStmt(d.Body)
	}

	// A decorated function nested inside another function's body needs
	// its enclosing scope, so it captures by value; a top-level
	// decorated function captures nothing, matching genFunctionDef's
	// own top-level-vs-nested lambda distinction.
	prevIsFuncDef := g.isFuncDef

	var bodyErr error
	body := g.captured(func() {
		if prevIsFuncDef {
			g.write("[=](")
		} else {
			g.write("[](")
		}
		snap := g.mangler.Snapshot()
		prevLocal := g.local
		g.local = true
		g.isFuncDef = true
		g.genFuncParams(def.Params, 0)
		g.writeReturnOutParams(def.ReturnTypes, len(def.Params) > 0)
		g.write(")mutable->")
		if len(def.ReturnTypes) == 0 {
			g.genExpr(def.ReturnType)
		} else {
			g.write("void")
		}
		g.write(" {\n")
		bodyErr = g.genBlock(def.Body)
		g.write("\n}")
		g.mangler.Restore(snap)
		g.local = prevLocal
		g.isFuncDef = prevIsFuncDef
	})
	if bodyErr != nil {
		return bodyErr
	}

	wrapped := body
	for i := len(d.Items) - 1; i >= 0; i-- {
		item := g.captured(func() { g.genExpr(d.Items[i]) })
		wrapped = item + "(" + wrapped + ")"
	}

	if static {
		g.write("static ")
	}
	g.write("auto ")
	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: def.Tok, Name: def.Name})
	g.isDefine = false
	g.write("=" + wrapped)
	return nil
}

// unwrapDecoratedFunc returns the FunctionDef a decorator chain wraps,
// looking through a single Static layer (`@deco\nstatic def f(): ...`
// inside a class body), and reports whether that layer was present.
func unwrapDecoratedFunc(body ast.Statement) (*ast.FunctionDef, bool) {
	switch b := body.(type) {
	case *ast.FunctionDef:
		return b, false
	case *ast.Static:
		if def, ok := b.Body.(*ast.FunctionDef); ok {
			return def, true
		}
	}
	return nil, false
}

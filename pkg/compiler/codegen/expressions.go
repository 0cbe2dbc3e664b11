package codegen

import (
	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/agenthands/peregrine/pkg/compiler/mangle"
)

func (g *Generator) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.NoLiteral:
		// nothing to emit for an absent slot
	case *ast.Integer:
		g.write(e.Value)
	case *ast.Decimal:
		g.write(e.Value)
	case *ast.String:
		g.write("\"" + e.Text + "\"")
	case *ast.Bool:
		if e.Value {
			g.write("true")
		} else {
			g.write("false")
		}
	case *ast.None:
		g.write("NULL")
	case *ast.Identifier:
		g.genIdentifier(e)
	case *ast.Type:
		g.genType(e)
	case *ast.BinaryOp:
		g.genBinaryOp(e)
	case *ast.PrefixOp:
		g.write("(" + e.Op + " ")
		g.genExpr(e.Right)
		g.write(")")
	case *ast.PostfixOp:
		g.genExpr(e.Left)
		g.write(e.Op)
	case *ast.FunctionCall:
		g.genFunctionCall(e)
	case *ast.ListOrDictAccess:
		g.genListOrDictAccess(e)
	case *ast.Dot:
		g.genDot(e)
	case *ast.Arrow:
		g.genArrow(e)
	case *ast.List:
		g.genList(e)
	case *ast.Dict:
		// dict literals are not lowered by the reference target —
		// the original's visitor is a deliberate no-op here too.
	case *ast.TernaryIf:
		g.write("(")
		g.genExpr(e.Cond)
		g.write(")?")
		g.genExpr(e.Then)
		g.write(":")
		g.genExpr(e.Else)
	case *ast.Cast:
		g.write("(")
		g.genExpr(e.Type)
		g.write(")(")
		g.genExpr(e.Value)
		g.write(")")
	case *ast.PointerType:
		g.genExpr(e.Base)
		g.write("*")
	case *ast.RefType:
		g.genExpr(e.Base)
		g.write("&")
	case *ast.DefaultArg:
		g.genExpr(e.Value)
	case *ast.LambdaType:
		g.genLambdaType(e)
	default:
		// Every closed-variant Expr is handled above; an unreached
		// case means the AST grew a node the generator hasn't caught
		// up with yet, so silence would hide it rather than surface
		// a malformed lowering.
		g.log.WithField("type", e).Warn("codegen: no lowering for expression type")
	}
}

func (g *Generator) genIdentifier(id *ast.Identifier) {
	name := id.Name

	if g.isRef {
		g.write(mangle.LocalPrefix + name)
		return
	}
	if g.currEnumName != "" {
		g.write(g.mangler.Resolve(g.currEnumName) + "________PEREGRINE____PEREGRINE____")
		g.write(name)
		return
	}

	if !g.mangler.Contains(name) {
		if g.local {
			g.mangler.SetLocal(name)
		} else {
			g.mangler.SetGlobal(name, mangle.LocalPrefix+g.global+name)
		}
	} else if g.isDefine {
		g.mangler.SetLocal(name)
	}

	g.write(g.mangler.Resolve(name))
}

func (g *Generator) genType(t *ast.Type) {
	if !g.mangler.Contains(t.Name) {
		g.write(t.Name)
	} else {
		g.write(g.mangler.Resolve(t.Name))
	}
	if len(t.GenericArgs) > 0 {
		g.write("<")
		for i, arg := range t.GenericArgs {
			g.genExpr(arg)
			if i < len(t.GenericArgs)-1 {
				g.write(",")
			}
		}
		g.write(">")
	}
}

func (g *Generator) genBinaryOp(b *ast.BinaryOp) {
	switch b.Op {
	case "**":
		g.write("_PEREGRINE_POWER(")
		g.genExpr(b.Left)
		g.write(",")
		g.genExpr(b.Right)
		g.write(")")
	case "//":
		g.write("_PEREGRINE_FLOOR(")
		g.genExpr(b.Left)
		g.write("/")
		g.genExpr(b.Right)
		g.write(")")
	case "in":
		g.write("(")
		g.genExpr(b.Right)
		g.write(".____PEREGRINE____PEREGRINE______contains__(")
		g.genExpr(b.Left)
		g.write("))")
	case "not in":
		g.write("(not ")
		g.genExpr(b.Right)
		g.write(".____PEREGRINE____PEREGRINE______contains__(")
		g.genExpr(b.Left)
		g.write("))")
	default:
		g.write("(")
		g.genExpr(b.Left)
		g.write(" " + b.Op + " ")
		g.genExpr(b.Right)
		g.write(")")
	}
}

func (g *Generator) genFunctionCall(f *ast.FunctionCall) {
	g.genExpr(f.Callee)
	g.write("(")

	prevRef := g.isRef
	g.isRef = false
	for i, arg := range f.Args {
		if i > 0 {
			g.write(", ")
		}
		g.genExpr(arg)
	}
	g.isRef = prevRef

	g.write(")")
}

func (g *Generator) genListOrDictAccess(l *ast.ListOrDictAccess) {
	g.genExpr(l.Container)
	g.write(".____PEREGRINE____PEREGRINE______getitem__(")

	prevRef := g.isRef
	g.isRef = false
	g.genExpr(l.Keys[0])
	if len(l.Keys) == 2 {
		g.write(",")
		g.genExpr(l.Keys[1])
	}
	g.isRef = prevRef

	g.write(")")
}

// genDot lowers a.b, special-casing an Identifier owner that names a
// known enum: `Color.Red` becomes the enum's mangled-and-qualified
// constant name rather than a member access.
func (g *Generator) genDot(d *ast.Dot) {
	prevRef := g.isRef
	g.isRef = true
	if !isChainedAccess(d.Owner) {
		g.isRef = false
	}

	if !g.isDotExpr {
		if owner, ok := d.Owner.(*ast.Identifier); ok && g.isEnumName(owner.Name) && g.mangler.Contains(owner.Name) {
			g.write(g.mangler.Resolve(owner.Name) + "________PEREGRINE____PEREGRINE____")
			if ref, ok := d.Referenced.(*ast.Identifier); ok {
				g.write(ref.Name)
			}
		} else {
			if _, isDot := d.Owner.(*ast.Dot); !isDot {
				g.isDotExpr = true
			}
			g.genExpr(d.Owner)
			g.write(".")
			g.isRef = true
			g.genExpr(d.Referenced)
			g.isDotExpr = false
		}
	} else {
		g.genExpr(d.Owner)
		g.write(".")
		g.isRef = true
		g.genExpr(d.Referenced)
	}

	g.isRef = prevRef
}

func (g *Generator) genArrow(a *ast.Arrow) {
	prevRef := g.isRef
	if !isChainedAccess(a.Owner) {
		g.isRef = false
	}
	g.genExpr(a.Owner)
	g.write("->")
	g.isRef = true
	g.genExpr(a.Referenced)
	g.isRef = prevRef
}

// isChainedAccess reports whether owner is itself a Dot or Arrow, so
// the ref flag is only cleared at the outermost link of a chained
// a.b->c access.
func isChainedAccess(owner ast.Expr) bool {
	switch owner.(type) {
	case *ast.Dot:
		return true
	case *ast.Arrow:
		return true
	default:
		return false
	}
}

func (g *Generator) isEnumName(name string) bool {
	for _, n := range g.enumNames {
		if n == name {
			return true
		}
	}
	return false
}

func (g *Generator) genList(l *ast.List) {
	g.write("{")
	for i, elem := range l.Elements {
		g.genExpr(elem)
		if i < len(l.Elements)-1 {
			g.write(",")
		}
	}
	g.write("}")
}

func (g *Generator) genLambdaType(l *ast.LambdaType) {
	g.write("std::function<")
	if len(l.ReturnTypes) == 0 {
		g.write("void(")
	} else {
		g.genExpr(l.ReturnTypes[0])
		g.write("(")
	}
	for i, arg := range l.ArgTypes {
		if i > 0 {
			g.write(",")
		}
		g.genExpr(arg)
	}
	g.write(")>")
}

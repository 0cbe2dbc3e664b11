package codegen

import (
	"strconv"

	"github.com/agenthands/peregrine/pkg/compiler/ast"
)

func (g *Generator) genVariable(v *ast.Variable) error {
	if !ast.IsNoLiteral(v.Type) {
		g.genExpr(v.Type)
		g.isDefine = true
		g.write(" ")
	}

	g.genExpr(v.Name)
	g.isDefine = false

	if !ast.IsNoLiteral(v.Value) {
		g.write(" = ")
		g.genExpr(v.Value)
	}
	return nil
}

func (g *Generator) genConst(c *ast.Const) error {
	g.write("const ")
	if !ast.IsNoLiteral(c.Type) {
		g.genExpr(c.Type)
	}
	g.write(" ")
	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: c.Tok, Name: c.Name})
	g.isDefine = false
	g.write("=")
	g.genExpr(c.Value)
	return nil
}

func (g *Generator) genTypeDef(t *ast.TypeDef) error {
	g.write("typedef ")
	g.genExpr(t.Type)
	g.write(" ")
	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: t.Tok, Name: t.Name})
	g.isDefine = false
	return nil
}

// genFuncParams lowers parameters from index start onward, matching
// the original's codegenFuncParams(parameters, start) — start lets a
// bound method's receiver (when one exists) be skipped without a
// separate code path.
func (g *Generator) genFuncParams(params []ast.Param, start int) {
	for i := start; i < len(params); i++ {
		if i > start {
			g.write(", ")
		}
		if ast.IsNoLiteral(params[i].Type) {
			g.write("auto")
		} else {
			g.genExpr(params[i].Type)
		}
		g.write(" ")
		g.isDefine = true
		g.genExpr(&ast.Identifier{Name: params[i].Name})
		g.isDefine = false
		if !ast.IsNoLiteral(params[i].Default) {
			g.write("=")
			g.genExpr(params[i].Default)
		}
	}
}

func (g *Generator) genFunctionDef(f *ast.FunctionDef) error {
	returnTypes := f.ReturnTypes
	prevReturnTypes := g.currentReturnTypes
	g.currentReturnTypes = returnTypes
	defer func() { g.currentReturnTypes = prevReturnTypes }()

	if !g.isFuncDef {
		g.isFuncDef = true
		defer func() { g.isFuncDef = false }()

		if f.Name == "main" {
			g.write("int main (")
			g.mangler.SetGlobal("main", "main")
			snap := g.mangler.Snapshot()
			prevLocal := g.local
			g.local = true
			g.genFuncParams(f.Params, 0)
			g.write(") {\n")
			if err := g.genBlock(f.Body); err != nil {
				return err
			}
			g.write("return 0;\n}")
			g.mangler.Restore(snap)
			g.local = prevLocal
			return nil
		}

		if len(returnTypes) == 0 {
			g.genExpr(f.ReturnType)
		} else {
			g.write("void")
		}
		g.write(" ")
		g.isDefine = true
		g.genExpr(&ast.Identifier{Tok: f.Tok, Name: f.Name})
		g.isDefine = false
		g.write("(")

		snap := g.mangler.Snapshot()
		prevLocal := g.local
		g.local = true
		g.genFuncParams(f.Params, 0)
		g.writeReturnOutParams(returnTypes, len(f.Params) > 0)
		g.write(") {\n")
		if err := g.genBlock(f.Body); err != nil {
			return err
		}
		g.write("\n}")
		g.mangler.Restore(snap)
		g.local = prevLocal
		return nil
	}

	// A nested def lowers to a mutable capturing lambda bound to a
	// local name, matching the original's closure representation.
	g.write("auto ")
	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: f.Tok, Name: f.Name})
	g.isDefine = false
	g.write("=[=](")

	snap := g.mangler.Snapshot()
	prevLocal := g.local
	g.local = true
	g.genFuncParams(f.Params, 0)
	g.writeReturnOutParams(returnTypes, len(f.Params) > 0)
	g.write(")mutable->")
	if len(returnTypes) == 0 {
		g.genExpr(f.ReturnType)
	} else {
		g.write("void")
	}
	g.write(" {\n")
	if err := g.genBlock(f.Body); err != nil {
		return err
	}
	g.write("\n}")
	g.mangler.Restore(snap)
	g.local = prevLocal
	return nil
}

// writeReturnOutParams emits the pointer out-parameters a tuple-
// returning function takes, each defaulted to NULL so a caller that
// only wants the primary value can omit them.
func (g *Generator) writeReturnOutParams(returnTypes []ast.Expr, hadParams bool) {
	if len(returnTypes) > 0 && hadParams {
		g.write(",")
	}
	for i, rt := range returnTypes {
		g.genExpr(rt)
		g.write("*____PEREGRINE____RETURN____" + strconv.Itoa(i) + "=NULL")
		if i < len(returnTypes)-1 {
			g.write(",")
		}
	}
}

func (g *Generator) genReturn(r *ast.Return) {
	if ast.IsNoLiteral(r.Value) {
		g.write("return ")
		return
	}

	values := tupleValues(r.Value, len(g.currentReturnTypes))
	if len(values) == 0 {
		g.write("return ")
		g.genExpr(r.Value)
		return
	}

	g.write("if (____PEREGRINE____RETURN____0!=NULL){\n")
	for i, v := range values {
		g.write("    *____PEREGRINE____RETURN____" + strconv.Itoa(i) + "=")
		g.genExpr(v)
		g.write(";\n")
	}
	g.write("}\n")
}

// tupleValues decomposes a return value into its component
// expressions when the enclosing function declared more than one
// return type and the value is written as a bracketed list —
// `return [a, b]` against `def f() -> int, int:`. A scalar return
// against a tuple-return function is a source error the generator
// doesn't itself diagnose; it lowers the single value into slot 0.
func tupleValues(value ast.Expr, wantCount int) []ast.Expr {
	if wantCount == 0 {
		return nil
	}
	if list, ok := value.(*ast.List); ok {
		return list.Elements
	}
	return []ast.Expr{value}
}

func (g *Generator) genIf(i *ast.If) error {
	g.write("if (")
	g.genExpr(i.Cond)
	g.write(") {\n")
	if err := g.genBlock(i.Then); err != nil {
		return err
	}
	g.write("}")

	if len(i.Elifs) > 0 {
		g.write("\n")
		for _, elif := range i.Elifs {
			g.write("else if (")
			g.genExpr(elif.Cond)
			g.write(") {\n")
			if err := g.genBlock(elif.Body); err != nil {
				return err
			}
			g.write("}")
		}
	}

	if block, ok := i.Else.(*ast.Block); ok {
		g.write("\nelse {\n")
		if err := g.genBlock(block); err != nil {
			return err
		}
		g.write("}")
	}
	return nil
}

func (g *Generator) genWhile(w *ast.While) error {
	g.write("while (")
	g.genExpr(w.Cond)
	g.write(") {\n")
	if err := g.genBlock(w.Body); err != nil {
		return err
	}
	g.write("}")
	return nil
}

func (g *Generator) genFor(f *ast.For) error {
	g.write("{\nauto ____PEREGRINE____VALUE=")
	g.genExpr(f.Seq)
	g.write(";\n")
	g.write("for (size_t ____PEREGRINE____i=0;____PEREGRINE____i<____PEREGRINE____VALUE.____PEREGRINE____PEREGRINE______iter__();++____PEREGRINE____i){\n")

	if len(f.Vars) == 1 {
		g.write("auto ")
		g.genExpr(&ast.Identifier{Name: f.Vars[0]})
		g.write("=____PEREGRINE____VALUE.____PEREGRINE____PEREGRINE______iterate__();\n")
	} else {
		g.write("auto ____PEREGRINE____TEMP=____PEREGRINE____VALUE.____PEREGRINE____PEREGRINE______iterate__();\n")
		for i, name := range f.Vars {
			g.write("auto ")
			g.genExpr(&ast.Identifier{Name: name})
			g.write("=____PEREGRINE____TEMP.____PEREGRINE____PEREGRINE______getitem__(")
			g.write(strconv.Itoa(i))
			g.write(");\n")
		}
	}

	if err := g.genBlock(f.Body); err != nil {
		return err
	}
	g.write("\n}\n}")
	return nil
}

func (g *Generator) genMatch(m *ast.Match) error {
	g.write("\nwhile (true) {\n")
	for i, c := range m.Cases {
		catchAll := len(c.Patterns) == 1 && ast.IsNoLiteral(c.Patterns[0])

		switch {
		case catchAll && i == 0:
			if err := g.genBlock(c.Body); err != nil {
				return err
			}
			g.write("\n")
		case catchAll:
			g.write("else {\n")
			if err := g.genBlock(c.Body); err != nil {
				return err
			}
			g.write("\n}\n")
		case i == 0:
			g.write("if (")
			g.genMatchCondition(m.Subjects, c.Patterns)
			g.write(") {\n")
			if err := g.genBlock(c.Body); err != nil {
				return err
			}
			g.write("\n}\n")
		default:
			g.write("else if (")
			g.genMatchCondition(m.Subjects, c.Patterns)
			g.write(") {\n")
			if err := g.genBlock(c.Body); err != nil {
				return err
			}
			g.write("\n}\n")
		}
	}

	if block, ok := m.Default.(*ast.Block); ok {
		if err := g.genBlock(block); err != nil {
			return err
		}
	}
	g.write("\nbreak;\n}")
	return nil
}

// genMatchCondition ANDs together one equality test per subject/
// pattern pair — a catch-all (NoLiteral) pattern in that position
// contributes no test, matching anything.
func (g *Generator) genMatchCondition(subjects, patterns []ast.Expr) {
	first := true
	for i, pattern := range patterns {
		if ast.IsNoLiteral(pattern) {
			continue
		}
		if !first {
			g.write(" and ")
		}
		first = false
		if i < len(subjects) {
			g.genExpr(subjects[i])
		} else if len(subjects) > 0 {
			g.genExpr(subjects[0])
		}
		g.write("==")
		g.genExpr(pattern)
	}
}

func (g *Generator) genScope(s *ast.Scope) error {
	g.write("{\n")
	if err := g.genBlock(s.Body); err != nil {
		return err
	}
	g.write("\n}")
	return nil
}

func (g *Generator) genWith(w *ast.With) error {
	g.write("{\n")
	var managers []string
	for i, bind := range w.Bindings {
		id := strconv.Itoa(i)
		managers = append(managers, id)
		g.write("auto CONTEXT____MANAGER____PEREGRINE____" + id + "=")
		g.genExpr(bind.Value)
		g.write(";\n")
		if bind.Var != "" {
			g.write("auto ")
			g.genExpr(&ast.Identifier{Name: bind.Var})
			g.write("=CONTEXT____MANAGER____PEREGRINE____" + id + ".____PEREGRINE____PEREGRINE______enter__()")
		} else {
			g.write("CONTEXT____MANAGER____PEREGRINE____" + id + ".____PEREGRINE____PEREGRINE______enter__()")
		}
		g.write(";\n")
	}

	if err := g.genBlock(w.Body); err != nil {
		return err
	}

	for _, id := range managers {
		g.write("CONTEXT____MANAGER____PEREGRINE____" + id + ".____PEREGRINE____PEREGRINE______end__();\n")
	}
	g.write("\n}\n")
	return nil
}

func (g *Generator) genTryExcept(t *ast.TryExcept) error {
	g.write("try{\n")
	if err := g.genBlock(t.Body); err != nil {
		return err
	}
	g.write("}\ncatch(error __PEREGRINE__exception){\n")

	for i, clause := range t.Clauses {
		if i == 0 {
			g.write("if (")
		} else {
			g.write("else if (")
		}
		for j, typ := range clause.Types {
			g.write("__PEREGRINE__exception==")
			g.genExpr(typ)
			if j < len(clause.Types)-1 {
				g.write(" or ")
			}
		}
		g.write("){\n")
		if clause.BindName != "" {
			g.write("auto ")
			g.genExpr(&ast.Identifier{Name: clause.BindName})
			g.write("=__PEREGRINE__exception;\n")
		}
		if err := g.genBlock(clause.Body); err != nil {
			return err
		}
		g.write("}\n")
	}

	switch elseBody := t.Else.(type) {
	case *ast.Block:
		if len(t.Clauses) > 0 {
			g.write("else{")
			if err := g.genBlock(elseBody); err != nil {
				return err
			}
			g.write("}\n")
		} else {
			if err := g.genBlock(elseBody); err != nil {
				return err
			}
		}
	default:
		if len(t.Clauses) > 0 {
			g.write("else{throw __PEREGRINE__exception;\n}\n")
		} else {
			g.write("throw __PEREGRINE__exception;\n")
		}
	}

	g.write("}")
	return nil
}

func (g *Generator) genRaise(r *ast.Raise) {
	g.write("throw ")
	if !ast.IsNoLiteral(r.Value) {
		g.genExpr(r.Value)
	} else {
		g.write("0")
	}
}

func (g *Generator) genAssert(a *ast.Assert) {
	tok := a.Cond.Pos()
	g.write("if(not ")
	g.genExpr(a.Cond)
	g.write("){\n")
	g.write("printf(\"AssertionError : in line " + strconv.Itoa(tok.Line) + " in file " + g.filename +
		"\\n   " + tok.Statement + "\\n\");fflush(stdout);throw error________PEREGRINE____PEREGRINE____AssertionError;")
	g.write("\n}")
}

func (g *Generator) genUnion(u *ast.Union) error {
	g.write("typedef union{\n")
	snap := g.mangler.Snapshot()
	prevLocal := g.local
	g.local = true
	for _, field := range u.Fields {
		g.genExpr(field.Type)
		g.write(" ")
		g.isDefine = true
		g.genExpr(&ast.Identifier{Name: field.Name})
		g.isDefine = false
		g.write(";\n")
	}
	g.write("\n}")
	g.mangler.Restore(snap)
	g.local = prevLocal

	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: u.Tok, Name: u.Name})
	g.isDefine = false
	return nil
}

func (g *Generator) genEnum(e *ast.Enum) error {
	g.write("typedef enum{\n")
	nameExpr := &ast.Identifier{Tok: e.Tok, Name: e.Name}
	g.enumNames = append(g.enumNames, e.Name)

	for i, field := range e.Fields {
		g.genExpr(nameExpr)
		g.write("____")
		snap := g.mangler.Snapshot()
		prevLocal := g.local
		g.local = true
		g.genExpr(&ast.Identifier{Name: field.Name})
		g.mangler.Restore(snap)
		g.local = prevLocal

		if !ast.IsNoLiteral(field.Value) {
			prevEnum := g.currEnumName
			g.currEnumName = e.Name
			g.write(" = ")
			g.genExpr(field.Value)
			g.currEnumName = prevEnum
		}
		if i != len(e.Fields)-1 {
			g.write(",\n")
		}
	}

	g.write("\n}")
	g.genExpr(nameExpr)
	return nil
}

func (g *Generator) genClassDef(c *ast.ClassDef) error {
	g.write("class ")
	g.isDefine = true
	g.genExpr(&ast.Identifier{Tok: c.Tok, Name: c.Name})
	g.isDefine = false

	if len(c.Parents) > 0 {
		g.write(":")
	}
	for i, parent := range c.Parents {
		g.write("public ")
		g.genExpr(parent)
		if i < len(c.Parents)-1 {
			g.write(",")
		}
	}

	g.write("\n{")
	snap := g.mangler.Snapshot()
	prevLocal := g.local
	g.local = true

	for _, other := range c.Other {
		if err := g.genStmt(other); err != nil {
			return err
		}
		g.write(";\n")
	}

	g.write("public:\n")

	prevClass := g.isClass
	g.isClass = true
	for _, attr := range c.Attributes {
		if err := g.genStmt(attr); err != nil {
			return err
		}
		g.write(";\n")
	}
	for _, method := range c.Methods {
		if err := g.genStmt(method); err != nil {
			return err
		}
		g.write(";\n")
	}
	g.isClass = prevClass

	g.write("\n}")
	g.mangler.Restore(snap)
	g.local = prevLocal
	return nil
}

func (g *Generator) genExport(e *ast.Export) error {
	g.write("extern \"C\" ")
	if fn, ok := e.Body.(*ast.FunctionDef); ok {
		g.mangler.SetGlobal(fn.Name, fn.Name)
	}
	return g.genStmt(e.Body)
}

func (g *Generator) genMultipleAssign(m *ast.MultipleAssign) {
	g.write("{")
	for i, v := range m.Values {
		g.write("auto _____PEREGRINE____temp____" + strconv.Itoa(i) + "=")
		g.genExpr(v)
		g.write(";")
	}
	for i, name := range m.Names {
		g.genExpr(name)
		g.write("=_____PEREGRINE____temp____" + strconv.Itoa(i))
		g.write(";")
	}
	g.write("}")
}

func (g *Generator) genAugAssign(a *ast.AugAssign) {
	g.genExpr(a.Name)
	g.write(a.Op)
	g.genExpr(a.Value)
}

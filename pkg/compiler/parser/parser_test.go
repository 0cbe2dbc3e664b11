package parser_test

import (
	"testing"

	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/agenthands/peregrine/pkg/compiler/lexer"
	"github.com/agenthands/peregrine/pkg/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.Tokenize([]byte(src))
	p := parser.New(toks, "test.pe")
	prog := p.Parse()
	require.False(t, p.Sink().HasErrors(), "unexpected diagnostics: %v", p.Sink().Diagnostics())
	return prog
}

func TestParseMainFunctionWithPass(t *testing.T) {
	prog := parseSource(t, "def main():\n    pass\n")
	require.Len(t, prog.Stmts, 1)

	fn, ok := prog.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok, "expected a FunctionDef, got %T", prog.Stmts[0])
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ast.Pass)
	assert.True(t, ok)
}

func TestParseVariableDeclarationWithType(t *testing.T) {
	prog := parseSource(t, "int x = 1 + 2\n")
	require.Len(t, prog.Stmts, 1)

	v, ok := prog.Stmts[0].(*ast.Variable)
	require.True(t, ok)
	typ, ok := v.Type.(*ast.Type)
	require.True(t, ok)
	assert.Equal(t, "int", typ.Name)

	bin, ok := v.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseVariableWithoutInitializerIsNoLiteral(t *testing.T) {
	prog := parseSource(t, "int x\n")
	v := prog.Stmts[0].(*ast.Variable)
	assert.True(t, ast.IsNoLiteral(v.Value))
}

func TestBinaryPrecedenceMulBindsTighterThanAdd(t *testing.T) {
	prog := parseSource(t, "int x = 1 + 2 * 3\n")
	v := prog.Stmts[0].(*ast.Variable)
	add, ok := v.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)

	_, ok = add.Left.(*ast.Integer)
	require.True(t, ok)

	mul, ok := add.Right.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestCallOnDotReferenceParsesAsOneStatement(t *testing.T) {
	prog := parseSource(t, "obj.method()\n")
	require.Len(t, prog.Stmts, 1)
}

func TestDotChainAssociatesLeftToRight(t *testing.T) {
	prog := parseSource(t, "a.b.c\n")
	require.Len(t, prog.Stmts, 1)

	stmt, ok := prog.Stmts[0].(*ast.ExprStatement)
	require.True(t, ok, "expected an ExprStatement, got %T", prog.Stmts[0])
	outer, ok := stmt.Value.(*ast.Dot)
	require.True(t, ok, "expected a Dot, got %T", stmt.Value)
	inner, ok := outer.Owner.(*ast.Dot)
	require.True(t, ok, "a.b.c must parse as (a.b).c, got owner %T", outer.Owner)
	assert.Equal(t, "a", inner.Owner.(*ast.Identifier).Name)
	assert.Equal(t, "b", inner.Referenced.(*ast.Identifier).Name)
	assert.Equal(t, "c", outer.Referenced.(*ast.Identifier).Name)
}

func TestSubscriptAssignRewritesToVariable(t *testing.T) {
	prog := parseSource(t, "arr[0] = 5\n")
	require.Len(t, prog.Stmts, 1)

	v, ok := prog.Stmts[0].(*ast.Variable)
	require.True(t, ok, "expected subscript-assign to rewrite to *ast.Variable, got %T", prog.Stmts[0])

	access, ok := v.Name.(*ast.ListOrDictAccess)
	require.True(t, ok)
	assert.Len(t, access.Keys, 1)

	val, ok := v.Value.(*ast.Integer)
	require.True(t, ok)
	assert.Equal(t, "5", val.Value)
}

func TestIfElifElse(t *testing.T) {
	src := "if x:\n    pass\nelif y:\n    pass\nelse:\n    pass\n"
	prog := parseSource(t, src)
	ifStmt, ok := prog.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Elifs, 1)
	assert.False(t, ast.IsNoLiteral(ifStmt.Else))
}

func TestIfWithoutElseIsNoLiteral(t *testing.T) {
	prog := parseSource(t, "if x:\n    pass\n")
	ifStmt := prog.Stmts[0].(*ast.If)
	assert.True(t, ast.IsNoLiteral(ifStmt.Else))
}

func TestForLoopWithMultipleBindings(t *testing.T) {
	prog := parseSource(t, "for k, v in items:\n    pass\n")
	forStmt, ok := prog.Stmts[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, []string{"k", "v"}, forStmt.Vars)
}

func TestWhileLoop(t *testing.T) {
	prog := parseSource(t, "while x:\n    pass\n")
	_, ok := prog.Stmts[0].(*ast.While)
	assert.True(t, ok)
}

func TestFunctionDefWithParamsAndReturnType(t *testing.T) {
	prog := parseSource(t, "def add(int a, int b) -> int:\n    return a + b\n")
	fn := prog.Stmts[0].(*ast.FunctionDef)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	retType, ok := fn.ReturnType.(*ast.Type)
	require.True(t, ok)
	assert.Equal(t, "int", retType.Name)
}

func TestClassDefSeparatesAttributesAndMethods(t *testing.T) {
	src := "class Point:\n    int x\n    int y\n    def sum(self) -> int:\n        return self.x\n"
	prog := parseSource(t, src)
	cls, ok := prog.Stmts[0].(*ast.ClassDef)
	require.True(t, ok)
	assert.Len(t, cls.Attributes, 2)
	assert.Len(t, cls.Methods, 1)
}

func TestTryExceptWithBoundName(t *testing.T) {
	src := "try:\n    pass\nexcept ValueError as e:\n    pass\n"
	prog := parseSource(t, src)
	tryStmt, ok := prog.Stmts[0].(*ast.TryExcept)
	require.True(t, ok)
	require.Len(t, tryStmt.Clauses, 1)
	assert.Equal(t, "e", tryStmt.Clauses[0].BindName)
	assert.True(t, ast.IsNoLiteral(tryStmt.Else))
}

func TestWithStatementBindsName(t *testing.T) {
	prog := parseSource(t, "with open(\"f\") as f:\n    pass\n")
	withStmt, ok := prog.Stmts[0].(*ast.With)
	require.True(t, ok)
	require.Len(t, withStmt.Bindings, 1)
	assert.Equal(t, "f", withStmt.Bindings[0].Var)
}

func TestMatchWithCatchAllPattern(t *testing.T) {
	src := "match x:\n    case 1:\n        pass\n    case _:\n        pass\n"
	prog := parseSource(t, src)
	m, ok := prog.Stmts[0].(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 2)
	assert.True(t, ast.IsNoLiteral(m.Cases[1].Patterns[0]))
}

func TestDecoratorWrapsFunctionDef(t *testing.T) {
	src := "@cached\ndef slow():\n    pass\n"
	prog := parseSource(t, src)
	dec, ok := prog.Stmts[0].(*ast.Decorator)
	require.True(t, ok)
	require.Len(t, dec.Items, 1)
	_, ok = dec.Body.(*ast.FunctionDef)
	assert.True(t, ok)
}

func TestRoundTripDeterminismOnIdenticalSource(t *testing.T) {
	src := "def add(int a, int b) -> int:\n    return a + b\n"
	first := parseSource(t, src)
	second := parseSource(t, src)
	assert.Equal(t, len(first.Stmts), len(second.Stmts))
}

func TestTernaryParsesCondThenElse(t *testing.T) {
	prog := parseSource(t, "int x = 1 ? 2 : 3\n")
	v := prog.Stmts[0].(*ast.Variable)
	tern, ok := v.Value.(*ast.TernaryIf)
	require.True(t, ok, "expected a TernaryIf, got %T", v.Value)
	_, ok = tern.Cond.(*ast.Integer)
	assert.True(t, ok)
	_, ok = tern.Then.(*ast.Integer)
	assert.True(t, ok)
	_, ok = tern.Else.(*ast.Integer)
	assert.True(t, ok)
}

func TestMultipleAssignPairsNamesAndValuesPositionally(t *testing.T) {
	prog := parseSource(t, "a, b = b, a\n")
	m, ok := prog.Stmts[0].(*ast.MultipleAssign)
	require.True(t, ok, "expected a MultipleAssign, got %T", prog.Stmts[0])
	require.Len(t, m.Names, 2)
	require.Len(t, m.Values, 2)
}

func TestAugAssignParsesOperatorAndValue(t *testing.T) {
	prog := parseSource(t, "x += 1\n")
	a, ok := prog.Stmts[0].(*ast.AugAssign)
	require.True(t, ok, "expected an AugAssign, got %T", prog.Stmts[0])
	assert.Equal(t, "+=", a.Op)
	_, ok = a.Value.(*ast.Integer)
	assert.True(t, ok)
}

func TestMalformedInputAccumulatesDiagnosticWithoutPanicking(t *testing.T) {
	toks := lexer.Tokenize([]byte("if :\n    pass\n"))
	p := parser.New(toks, "bad.pe")
	require.NotPanics(t, func() { p.Parse() })
}

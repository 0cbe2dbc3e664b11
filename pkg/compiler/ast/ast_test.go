package ast_test

import (
	"testing"

	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/agenthands/peregrine/pkg/compiler/token"
)

func TestNoLiteralSatisfiesExprAndStatement(t *testing.T) {
	var _ ast.Expr = ast.No
	var _ ast.Statement = ast.No
}

func TestIsNoLiteral(t *testing.T) {
	if !ast.IsNoLiteral(ast.No) {
		t.Fatal("ast.No must report as NoLiteral")
	}
	if ast.IsNoLiteral(&ast.Identifier{Name: "x"}) {
		t.Fatal("a concrete node must not report as NoLiteral")
	}
}

func TestOptionalSlotsAcceptNoLiteral(t *testing.T) {
	v := &ast.Variable{Type: ast.No, Name: &ast.Identifier{Name: "x"}, Value: ast.No}
	if !ast.IsNoLiteral(v.Type) || !ast.IsNoLiteral(v.Value) {
		t.Fatal("omitted Variable slots must be NoLiteral, never nil")
	}

	ifStmt := &ast.If{Cond: &ast.Bool{Value: true}, Then: &ast.Block{}, Else: ast.No}
	if !ast.IsNoLiteral(ifStmt.Else) {
		t.Fatal("an If with no else branch must hold NoLiteral, not nil")
	}
}

func TestEveryNodePosReturnsItsToken(t *testing.T) {
	tok := token.Token{Kind: token.Identifier, Lexeme: "x", Line: 3, Column: 7}
	id := &ast.Identifier{Tok: tok, Name: "x"}
	if id.Pos() != tok {
		t.Fatalf("Pos() must return the originating token unchanged")
	}
}

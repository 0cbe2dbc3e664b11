// Package ast defines the closed family of node variants produced by
// the parser and consumed by the code generator. Every node carries its
// originating token for diagnostics and is immutable after construction.
// Optional child slots that are absent are represented by the single
// sentinel NoLiteral, never by nil — this is the closed-variant
// invariant the rest of the compiler core relies on.
package ast

import "github.com/agenthands/peregrine/pkg/compiler/token"

// Node is any member of the AST.
type Node interface {
	Pos() token.Token
}

// Expr is a node that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Statement is a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// ---- Program / body -------------------------------------------------

type Program struct {
	Tok   token.Token
	Stmts []Statement
}

func (p *Program) Pos() token.Token { return p.Tok }

type Block struct {
	Tok   token.Token
	Stmts []Statement
}

func (b *Block) Pos() token.Token { return b.Tok }
func (b *Block) stmtNode()        {}

// ---- NoLiteral sentinel ----------------------------------------------

// NoLiteral is the canonical representation of an absent/omitted slot.
// It satisfies both Expr and Statement so it can occupy any optional
// child position in the tree.
type NoLiteral struct {
	Tok token.Token
}

func (n *NoLiteral) Pos() token.Token { return n.Tok }
func (n *NoLiteral) exprNode()        {}
func (n *NoLiteral) stmtNode()        {}

// No is the shared absent-value sentinel for call sites that don't need
// position info.
var No = &NoLiteral{}

// IsNoLiteral reports whether node is the absent-slot sentinel.
func IsNoLiteral(node Node) bool {
	_, ok := node.(*NoLiteral)
	return ok
}

// ---- Declarations -----------------------------------------------------

// Variable's Name is an Expr, not a plain identifier string, because
// subscript-assignment (`a[k] = v`) is rewritten by the parser into a
// Variable whose Name slot holds the ListOrDictAccess node (see
// spec §4.1 "After subscript, if = follows...").
type Variable struct {
	Tok   token.Token
	Type  Expr // NoLiteral if omitted
	Name  Expr
	Value Expr // NoLiteral if omitted
}

func (v *Variable) Pos() token.Token { return v.Tok }
func (v *Variable) stmtNode()        {}

// exprNode lets *Variable pass through Expr-typed call chains (see
// parser.exprAsVariable) when reached via subscript-assignment.
func (v *Variable) exprNode() {}

type Const struct {
	Tok   token.Token
	Type  Expr
	Name  string
	Value Expr
}

func (c *Const) Pos() token.Token { return c.Tok }
func (c *Const) stmtNode()        {}

type TypeDef struct {
	Tok  token.Token
	Name string
	Type Expr
}

func (t *TypeDef) Pos() token.Token { return t.Tok }
func (t *TypeDef) stmtNode()        {}

type Param struct {
	Type    Expr // NoLiteral if untyped
	Name    string
	Default Expr // NoLiteral if none
}

type FunctionDef struct {
	Tok         token.Token
	ReturnType  Expr   // a Type; void when the source declares none
	ReturnTypes []Expr // len > 1 marks a tuple-return function
	Name        string
	Params      []Param
	Body        *Block
}

func (f *FunctionDef) Pos() token.Token { return f.Tok }
func (f *FunctionDef) stmtNode()        {}

type ClassDef struct {
	Tok        token.Token
	Name       string
	Parents    []Expr
	Attributes []Statement
	Methods    []*FunctionDef
	Other      []Statement
}

func (c *ClassDef) Pos() token.Token { return c.Tok }
func (c *ClassDef) stmtNode()        {}

type UnionField struct {
	Type Expr
	Name string
}

type Union struct {
	Tok    token.Token
	Name   string
	Fields []UnionField
}

func (u *Union) Pos() token.Token { return u.Tok }
func (u *Union) stmtNode()        {}

type EnumField struct {
	Name  string
	Value Expr // NoLiteral if omitted
}

type Enum struct {
	Tok    token.Token
	Name   string
	Fields []EnumField
}

func (e *Enum) Pos() token.Token { return e.Tok }
func (e *Enum) stmtNode()        {}

type LambdaType struct {
	Tok         token.Token
	ArgTypes    []Expr
	ReturnTypes []Expr
}

func (l *LambdaType) Pos() token.Token { return l.Tok }
func (l *LambdaType) exprNode()        {}

// ---- Control flow ------------------------------------------------------

type Elif struct {
	Cond Expr
	Body *Block
}

type If struct {
	Tok   token.Token
	Cond  Expr
	Then  *Block
	Elifs []Elif
	Else  Statement // *Block, or ast.No if absent
}

func (i *If) Pos() token.Token { return i.Tok }
func (i *If) stmtNode()        {}

type While struct {
	Tok  token.Token
	Cond Expr
	Body *Block
}

func (w *While) Pos() token.Token { return w.Tok }
func (w *While) stmtNode()        {}

type For struct {
	Tok  token.Token
	Vars []string
	Seq  Expr
	Body *Block
}

func (f *For) Pos() token.Token { return f.Tok }
func (f *For) stmtNode()        {}

type MatchCase struct {
	Patterns []Expr // a pattern of NoLiteral means "always matches" (catch-all `_`)
	Body     *Block
}

type Match struct {
	Tok      token.Token
	Subjects []Expr
	Cases    []MatchCase
	Default  Statement // *Block, or ast.No if absent
}

func (m *Match) Pos() token.Token { return m.Tok }
func (m *Match) stmtNode()        {}

type Scope struct {
	Tok  token.Token
	Body *Block
}

func (s *Scope) Pos() token.Token { return s.Tok }
func (s *Scope) stmtNode()        {}

type WithBinding struct {
	Var   string // "" if absent
	Value Expr
}

type With struct {
	Tok      token.Token
	Bindings []WithBinding
	Body     *Block
}

func (w *With) Pos() token.Token { return w.Tok }
func (w *With) stmtNode()        {}

type ExceptClause struct {
	Types    []Expr
	BindName string // "" if absent
	Body     *Block
}

type TryExcept struct {
	Tok     token.Token
	Body    *Block
	Clauses []ExceptClause
	Else    Statement // *Block, or ast.No if absent
}

func (t *TryExcept) Pos() token.Token { return t.Tok }
func (t *TryExcept) stmtNode()        {}

type Return struct {
	Tok   token.Token
	Value Expr // NoLiteral if bare return
}

func (r *Return) Pos() token.Token { return r.Tok }
func (r *Return) stmtNode()        {}

type Break struct{ Tok token.Token }

func (b *Break) Pos() token.Token { return b.Tok }
func (b *Break) stmtNode()        {}

type Continue struct{ Tok token.Token }

func (c *Continue) Pos() token.Token { return c.Tok }
func (c *Continue) stmtNode()        {}

type Pass struct{ Tok token.Token }

func (p *Pass) Pos() token.Token { return p.Tok }
func (p *Pass) stmtNode()        {}

type Raise struct {
	Tok   token.Token
	Value Expr // NoLiteral if bare raise
}

func (r *Raise) Pos() token.Token { return r.Tok }
func (r *Raise) stmtNode()        {}

type Assert struct {
	Tok  token.Token
	Cond Expr
}

func (a *Assert) Pos() token.Token { return a.Tok }
func (a *Assert) stmtNode()        {}

// ---- Expressions --------------------------------------------------------

type Integer struct {
	Tok   token.Token
	Value string
}

func (i *Integer) Pos() token.Token { return i.Tok }
func (i *Integer) exprNode()        {}

type Decimal struct {
	Tok   token.Token
	Value string
}

func (d *Decimal) Pos() token.Token { return d.Tok }
func (d *Decimal) exprNode()        {}

type String struct {
	Tok       token.Token
	Text      string
	Raw       bool
	Formatted bool
}

func (s *String) Pos() token.Token { return s.Tok }
func (s *String) exprNode()        {}

type Bool struct {
	Tok   token.Token
	Value bool
}

func (b *Bool) Pos() token.Token { return b.Tok }
func (b *Bool) exprNode()        {}

type None struct{ Tok token.Token }

func (n *None) Pos() token.Token { return n.Tok }
func (n *None) exprNode()        {}

type Identifier struct {
	Tok  token.Token
	Name string
}

func (i *Identifier) Pos() token.Token { return i.Tok }
func (i *Identifier) exprNode()        {}

type Type struct {
	Tok         token.Token
	Name        string
	GenericArgs []Expr
}

func (t *Type) Pos() token.Token { return t.Tok }
func (t *Type) exprNode()        {}

type BinaryOp struct {
	Tok   token.Token
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Pos() token.Token { return b.Tok }
func (b *BinaryOp) exprNode()        {}

type PrefixOp struct {
	Tok   token.Token
	Op    string
	Right Expr
}

func (p *PrefixOp) Pos() token.Token { return p.Tok }
func (p *PrefixOp) exprNode()        {}

type PostfixOp struct {
	Tok  token.Token
	Op   string
	Left Expr
}

func (p *PostfixOp) Pos() token.Token { return p.Tok }
func (p *PostfixOp) exprNode()        {}

type FunctionCall struct {
	Tok    token.Token
	Callee Expr
	Args   []Expr
}

func (f *FunctionCall) Pos() token.Token { return f.Tok }
func (f *FunctionCall) exprNode()        {}

// ListOrDictAccess is a[k] (1 key) or a[i:j] (2 keys, slicing).
type ListOrDictAccess struct {
	Tok       token.Token
	Container Expr
	Keys      []Expr
}

func (l *ListOrDictAccess) Pos() token.Token { return l.Tok }
func (l *ListOrDictAccess) exprNode()        {}

type Dot struct {
	Tok        token.Token
	Owner      Expr
	Referenced Expr
}

func (d *Dot) Pos() token.Token { return d.Tok }
func (d *Dot) exprNode()        {}

type Arrow struct {
	Tok        token.Token
	Owner      Expr
	Referenced Expr
}

func (a *Arrow) Pos() token.Token { return a.Tok }
func (a *Arrow) exprNode()        {}

type List struct {
	Tok      token.Token
	Elements []Expr
}

func (l *List) Pos() token.Token { return l.Tok }
func (l *List) exprNode()        {}

type DictEntry struct {
	Key   Expr
	Value Expr
}

type Dict struct {
	Tok     token.Token
	Entries []DictEntry
}

func (d *Dict) Pos() token.Token { return d.Tok }
func (d *Dict) exprNode()        {}

type TernaryIf struct {
	Tok  token.Token
	Cond Expr
	Then Expr
	Else Expr
}

func (t *TernaryIf) Pos() token.Token { return t.Tok }
func (t *TernaryIf) exprNode()        {}

type Cast struct {
	Tok   token.Token
	Type  Expr
	Value Expr
}

func (c *Cast) Pos() token.Token { return c.Tok }
func (c *Cast) exprNode()        {}

type PointerType struct {
	Tok  token.Token
	Base Expr
}

func (p *PointerType) Pos() token.Token { return p.Tok }
func (p *PointerType) exprNode()        {}

type RefType struct {
	Tok  token.Token
	Base Expr
}

func (r *RefType) Pos() token.Token { return r.Tok }
func (r *RefType) exprNode()        {}

type DefaultArg struct {
	Tok   token.Token
	Name  string
	Value Expr
}

func (d *DefaultArg) Pos() token.Token { return d.Tok }
func (d *DefaultArg) exprNode()        {}

// ---- Decorators / modifiers ---------------------------------------------

type Decorator struct {
	Tok   token.Token
	Items []Expr
	Body  Statement // a FunctionDef or a Static(FunctionDef)
}

func (d *Decorator) Pos() token.Token { return d.Tok }
func (d *Decorator) stmtNode()        {}

type Static struct {
	Tok  token.Token
	Body Statement
}

func (s *Static) Pos() token.Token { return s.Tok }
func (s *Static) stmtNode()        {}

type Inline struct {
	Tok  token.Token
	Body Statement
}

func (i *Inline) Pos() token.Token { return i.Tok }
func (i *Inline) stmtNode()        {}

type Export struct {
	Tok  token.Token
	Body Statement
}

func (e *Export) Pos() token.Token { return e.Tok }
func (e *Export) stmtNode()        {}

// ---- Multi-assign ---------------------------------------------------------

type MultipleAssign struct {
	Tok    token.Token
	Names  []Expr
	Values []Expr
}

func (m *MultipleAssign) Pos() token.Token { return m.Tok }
func (m *MultipleAssign) stmtNode()        {}

type AugAssign struct {
	Tok   token.Token
	Name  Expr
	Op    string
	Value Expr
}

func (a *AugAssign) Pos() token.Token { return a.Tok }
func (a *AugAssign) stmtNode()        {}

// ExprStatement lifts a bare expression into statement position — a
// function call made purely for its side effect, with no assignment.
type ExprStatement struct {
	Value Expr
}

func (e *ExprStatement) Pos() token.Token { return e.Value.Pos() }
func (e *ExprStatement) stmtNode()        {}

// ---- Imports ----------------------------------------------------------

type ImportName struct {
	Name  string
	Alias string // "" if absent
}

type Import struct {
	Tok        token.Token
	ModuleName []ImportName
	Symbols    []ImportName // populated only for `from X import a, b as c`
}

func (i *Import) Pos() token.Token { return i.Tok }
func (i *Import) stmtNode()        {}

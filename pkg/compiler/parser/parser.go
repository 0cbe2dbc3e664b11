// Package parser turns a token stream into an *ast.Program via
// recursive descent for statements and a Pratt (operator-precedence)
// loop for expressions, using the precedence table in precedence.go.
// Errors are accumulated into a diagnostics.Sink rather than thrown —
// the parser always returns a usable (if partial) tree, and the caller
// decides whether sink.HasErrors() should stop the pipeline.
package parser

import (
	"github.com/agenthands/peregrine/pkg/compiler/ast"
	"github.com/agenthands/peregrine/pkg/compiler/token"
	"github.com/agenthands/peregrine/pkg/diagnostics"
)

// Parser consumes a fixed token slice by index, mirroring the
// original's vector-indexed token stream rather than a channel or
// iterator — the grammar needs unrestricted lookahead (peek()) at
// nearly every production.
type Parser struct {
	toks []token.Token
	pos  int
	sink *diagnostics.Sink
}

// New creates a Parser over toks, reporting diagnostics against file.
func New(toks []token.Token, file string) *Parser {
	return &Parser{toks: toks, sink: diagnostics.NewSink(file)}
}

// Sink exposes the accumulated diagnostics for the caller to inspect
// or render.
func (p *Parser) Sink() *diagnostics.Sink { return p.sink }

// Parse consumes the whole token stream and returns the resulting
// program. Malformed input still yields a Program; check p.Sink() to
// decide whether to use it.
func (p *Parser) Parse() *ast.Program {
	tok := p.cur()
	var stmts []ast.Statement

	for p.cur().Kind != token.EOF {
		stmts = append(stmts, p.parseStatement())
		p.advance()
	}

	return &ast.Program{Tok: tok, Stmts: stmts}
}

// ---- token cursor -------------------------------------------------------

func (p *Parser) at(i int) token.Token {
	if i < 0 || i >= len(p.toks) {
		if len(p.toks) > 0 {
			last := p.toks[len(p.toks)-1]
			return token.Token{Kind: token.EOF, Line: last.Line, Column: last.Column}
		}
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) cur() token.Token  { return p.at(p.pos) }
func (p *Parser) peek() token.Token { return p.at(p.pos + 1) }
func (p *Parser) advance()          { p.pos++ }

// advanceOnNewline consumes a single trailing NEWLINE if that's what's
// next. Statement dispatchers and the outermost parseExpression call
// own this call — nested sub-expression parsing (parseExpressionRaw)
// never consumes NEWLINE on its own, otherwise a NEWLINE would be
// swallowed once per nesting level instead of once per statement.
func (p *Parser) advanceOnNewline() {
	if p.peek().Kind == token.Newline {
		p.advance()
	}
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.sink.Report(tok.Line, tok.Column, tok.Statement, msg)
}

// expect reports a diagnostic if the next token isn't kind, then
// advances onto it regardless — recovery-by-resynchronization, not
// by panic: one bad token produces one diagnostic, not a cascade.
// When expecting an INDENT, the NEWLINE the lexer emits before it (at
// the end of a block header line) is skipped first.
func (p *Parser) expect(kind token.Kind) {
	if kind == token.Indent && p.peek().Kind == token.Newline {
		p.advance()
	}
	if p.peek().Kind != kind {
		p.errorAt(p.peek(), "expected "+kind.String()+", got "+p.peek().Kind.String()+" instead")
	}
	p.advance()
}

// ---- statement dispatch -------------------------------------------------

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.KwConst:
		return p.parseConst()
	case token.At:
		return p.parseDecoratorChain()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwFrom, token.KwImport:
		return p.parseImport()
	case token.KwDef:
		return p.parseFunctionDef()
	case token.KwClass:
		return p.parseClass()
	case token.KwUnion:
		return p.parseUnion()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwWith:
		return p.parseWith()
	case token.KwTry:
		return p.parseTryExcept()
	case token.KwRaise:
		return p.parseRaise()
	case token.KwAssert:
		return p.parseAssert()
	case token.KwBreak:
		b := &ast.Break{Tok: p.cur()}
		p.advanceOnNewline()
		return b
	case token.KwPass:
		b := &ast.Pass{Tok: p.cur()}
		p.advanceOnNewline()
		return b
	case token.KwMatch:
		return p.parseMatch()
	case token.KwContinue:
		c := &ast.Continue{Tok: p.cur()}
		p.advanceOnNewline()
		return c
	case token.KwReturn:
		return p.parseReturn()
	case token.KwScope:
		return p.parseScope()
	case token.KwType:
		return p.parseTypeDef()
	case token.KwStatic:
		return p.parseStaticModifier()
	case token.KwInline:
		return p.parseInlineModifier()
	case token.KwExport:
		return p.parseExportModifier()
	case token.Identifier:
		switch p.peek().Kind {
		case token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq:
			return p.parseAugAssign()
		case token.Comma:
			if p.looksLikeMultipleAssign() {
				return p.parseMultipleAssign()
			}
		}
		if p.peek().Kind == token.Identifier || p.peek().Kind == token.Assign {
			return p.parseVariable()
		}
		return p.exprStatement()
	default:
		return p.exprStatement()
	}
}

// exprStatement lifts a bare expression (e.g. a call made for its
// side effect) into statement position.
func (p *Parser) exprStatement() ast.Statement {
	expr := p.parseExpression(precLowest)
	if v, ok := expr.(*exprAsVariable); ok {
		return v.Variable
	}
	return &ast.ExprStatement{Value: expr}
}

// parseBlock consumes an INDENT, statements until DEDENT, and the
// closing DEDENT itself. Called with the cursor already positioned on
// the INDENT token.
func (p *Parser) parseBlock() *ast.Block {
	tok := p.cur()
	p.advance() // consume INDENT, land on the block's first statement

	var stmts []ast.Statement
	for p.cur().Kind != token.Dedent {
		if p.cur().Kind == token.EOF {
			p.errorAt(p.cur(), "expected end of indentation, got eof instead")
			break
		}
		stmts = append(stmts, p.parseStatement())
		p.advance()
	}
	return &ast.Block{Tok: tok, Stmts: stmts}
}

// ---- declarations --------------------------------------------------------

func (p *Parser) parseConst() ast.Statement {
	tok := p.cur()
	p.expect(token.Identifier)

	var typ ast.Expr = ast.No
	if p.peek().Kind == token.Identifier {
		typ = p.parseType()
		p.advance()
	}

	name := p.parseNameToken()

	p.expect(token.Assign)
	p.advance()
	value := p.parseExpression(precLowest)

	return &ast.Const{Tok: tok, Type: typ, Name: name, Value: value}
}

func (p *Parser) parseVariable() ast.Statement {
	tok := p.cur()
	var typ ast.Expr = ast.No

	if p.peek().Kind == token.Identifier {
		typ = p.parseType()
		p.advance()
	}

	name := p.parseName()

	var value ast.Expr = ast.No
	if p.peek().Kind == token.Assign {
		p.advance()
		p.advance()
		value = p.parseExpression(precLowest)
	} else {
		p.advanceOnNewline()
	}

	return &ast.Variable{Tok: tok, Type: typ, Name: name, Value: value}
}

// looksLikeMultipleAssign reports whether the comma-separated run of
// identifiers starting at the cursor is followed by a single "=" —
// distinguishing `a, b = b, a` from a bare expression statement like
// `a, b` (a tuple literal, which this language doesn't have, but the
// lookahead stays conservative rather than assuming). Restores the
// cursor unconditionally.
func (p *Parser) looksLikeMultipleAssign() bool {
	save := p.pos
	defer func() { p.pos = save }()

	for p.cur().Kind == token.Identifier && p.peek().Kind == token.Comma {
		p.advance()
		p.advance()
	}
	return p.cur().Kind == token.Identifier && p.peek().Kind == token.Assign
}

// parseMultipleAssign parses `a, b = b, a`, pairing names and values
// positionally left to right.
func (p *Parser) parseMultipleAssign() ast.Statement {
	tok := p.cur()

	var names []ast.Expr
	for {
		names = append(names, p.parseName())
		if p.peek().Kind != token.Comma {
			break
		}
		p.advance()
		p.advance()
	}

	p.expect(token.Assign)
	p.advance()

	var values []ast.Expr
	for {
		values = append(values, p.parseExpressionRaw(precLowest))
		if p.peek().Kind != token.Comma {
			break
		}
		p.advance()
		p.advance()
	}
	p.advanceOnNewline()

	return &ast.MultipleAssign{Tok: tok, Names: names, Values: values}
}

// parseAugAssign parses `name += value` and its -=/*=//= siblings.
func (p *Parser) parseAugAssign() ast.Statement {
	name := p.parseName()
	op := p.peek()
	p.advance()
	p.advance()
	value := p.parseExpression(precLowest)
	return &ast.AugAssign{Tok: op, Name: name, Op: op.Lexeme, Value: value}
}

func (p *Parser) parseTypeDef() ast.Statement {
	tok := p.cur()
	p.advance()

	name := p.parseNameToken()

	p.expect(token.Assign)
	p.advance()

	var typ ast.Expr
	switch p.cur().Kind {
	case token.KwLambda, token.LParen:
		typ = p.parseLambdaType()
	default:
		typ = p.parseType()
	}

	p.advanceOnNewline()
	return &ast.TypeDef{Tok: tok, Name: name, Type: typ}
}

func (p *Parser) parseLambdaType() ast.Expr {
	tok := p.cur()
	if p.cur().Kind == token.KwLambda {
		p.advance()
	}
	p.expect(token.LParen)

	var argTypes []ast.Expr
	for p.cur().Kind != token.RParen {
		p.advance()
		if p.cur().Kind == token.RParen {
			break
		}
		if p.cur().Kind == token.Identifier {
			argTypes = append(argTypes, &ast.Identifier{Tok: p.cur(), Name: p.cur().Lexeme})
		}
	}

	var returnTypes []ast.Expr
	if p.peek().Kind == token.Arrow {
		p.advance()
		p.expect(token.Identifier)
		returnTypes = append(returnTypes, &ast.Identifier{Tok: p.cur(), Name: p.cur().Lexeme})
	}

	return &ast.LambdaType{Tok: tok, ArgTypes: argTypes, ReturnTypes: returnTypes}
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	tok := p.cur()
	p.expect(token.Identifier)
	name := p.parseNameToken()

	p.expect(token.LParen)

	var params []ast.Param
	if p.peek().Kind != token.RParen {
		for {
			p.advance()
			if p.cur().Kind != token.Identifier {
				p.errorAt(p.cur(), "expected a parameter type, got "+p.cur().Kind.String()+" instead")
			}
			// A name followed directly by ',', ')' or '=' is an untyped
			// parameter; otherwise the parameter starts with its type.
			var paramType ast.Expr = ast.No
			if k := p.peek().Kind; k != token.Comma && k != token.RParen && k != token.Assign {
				paramType = p.parseType()
				p.expect(token.Identifier)
			}
			paramName := p.parseNameToken()

			var def ast.Expr = ast.No
			if p.peek().Kind == token.Assign {
				p.advance()
				p.advance()
				def = p.parseExpression(precLowest)
			}

			params = append(params, ast.Param{Type: paramType, Name: paramName, Default: def})
			p.advance()
			if p.cur().Kind != token.Comma {
				break
			}
		}
	} else {
		p.advance()
	}

	if p.cur().Kind != token.RParen {
		p.errorAt(p.cur(), "expected ), got "+p.cur().Kind.String()+" instead")
	}

	var returnType ast.Expr = &ast.Type{Tok: p.cur(), Name: "void"}
	var returnTypes []ast.Expr
	if p.peek().Kind == token.Arrow {
		p.advance()
		p.expect(token.Identifier)
		returnType = p.parseType()

		for p.peek().Kind == token.Comma {
			returnTypes = append(returnTypes, returnType)
			p.advance()
			p.expect(token.Identifier)
			returnType = p.parseType()
		}
		if len(returnTypes) > 0 {
			returnTypes = append(returnTypes, returnType)
		}
	}

	p.expect(token.Colon)
	p.expect(token.Indent)

	body := p.parseBlock()

	return &ast.FunctionDef{Tok: tok, ReturnType: returnType, ReturnTypes: returnTypes, Name: name, Params: params, Body: body}
}

func (p *Parser) parseClass() ast.Statement {
	tok := p.cur()
	p.expect(token.Identifier)
	name := p.parseNameToken()

	var parents []ast.Expr
	if p.peek().Kind == token.LParen {
		p.advance()
		for p.peek().Kind != token.RParen {
			p.advance()
			if p.cur().Kind == token.Comma {
				continue
			}
			parents = append(parents, &ast.Identifier{Tok: p.cur(), Name: p.cur().Lexeme})
		}
		p.advance()
	}

	p.expect(token.Colon)
	p.expect(token.Indent)
	p.advance() // step off the INDENT onto the first member

	cls := &ast.ClassDef{Tok: tok, Name: name, Parents: parents}
	for p.cur().Kind != token.Dedent {
		if p.cur().Kind == token.EOF {
			p.errorAt(p.cur(), "expected end of class body, got eof instead")
			break
		}
		switch stmt := p.parseStatement().(type) {
		case *ast.Variable:
			cls.Attributes = append(cls.Attributes, stmt)
		case *ast.FunctionDef:
			cls.Methods = append(cls.Methods, stmt)
		case *ast.Decorator:
			if fn, ok := asFunctionDef(stmt.Body); ok {
				cls.Methods = append(cls.Methods, fn)
			} else {
				cls.Other = append(cls.Other, stmt)
			}
		default:
			cls.Other = append(cls.Other, stmt)
		}
		p.advance()
	}

	return cls
}

// asFunctionDef unwraps a Static-wrapped FunctionDef, since a
// decorated static method is still a method for class-body purposes.
func asFunctionDef(stmt ast.Statement) (*ast.FunctionDef, bool) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		return s, true
	case *ast.Static:
		return asFunctionDef(s.Body)
	default:
		return nil, false
	}
}

func (p *Parser) parseUnion() ast.Statement {
	tok := p.cur()
	p.expect(token.Identifier)
	name := p.parseNameToken()

	p.expect(token.Colon)
	p.expect(token.Indent)
	p.advance() // step off the INDENT onto the first field

	u := &ast.Union{Tok: tok, Name: name}
	for p.cur().Kind != token.Dedent {
		if p.cur().Kind == token.EOF {
			break
		}
		fieldType := p.parseType()
		p.expect(token.Identifier)
		fieldName := p.parseNameToken()
		u.Fields = append(u.Fields, ast.UnionField{Type: fieldType, Name: fieldName})
		p.advanceOnNewline()
		p.advance()
	}

	return u
}

func (p *Parser) parseEnum() ast.Statement {
	tok := p.cur()
	p.expect(token.Identifier)
	name := p.parseNameToken()

	p.expect(token.Colon)
	p.expect(token.Indent)
	p.advance() // step off the INDENT onto the first member

	e := &ast.Enum{Tok: tok, Name: name}
	for p.cur().Kind != token.Dedent {
		if p.cur().Kind == token.EOF {
			break
		}
		if p.cur().Kind != token.Identifier {
			p.errorAt(p.cur(), "expected an enum member name, got "+p.cur().Kind.String()+" instead")
			p.advance()
			continue
		}
		fieldName := p.cur().Lexeme
		var value ast.Expr = ast.No
		if p.peek().Kind == token.Assign {
			p.advance()
			p.advance()
			value = p.parseExpression(precLowest)
		}
		e.Fields = append(e.Fields, ast.EnumField{Name: fieldName, Value: value})
		p.advanceOnNewline()
		p.advance()
	}

	return e
}

// ---- control flow ---------------------------------------------------------

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur()
	p.advance()
	cond := p.parseExpression(precLowest)

	p.expect(token.Colon)
	p.expect(token.Indent)
	then := p.parseBlock()

	var elifs []ast.Elif
	for p.peek().Kind == token.KwElif {
		p.advance()
		p.advance()
		elifCond := p.parseExpression(precLowest)
		p.expect(token.Colon)
		p.expect(token.Indent)
		elifs = append(elifs, ast.Elif{Cond: elifCond, Body: p.parseBlock()})
	}

	var elseBody ast.Statement = ast.No
	if p.peek().Kind == token.KwElse {
		p.advance()
		p.expect(token.Colon)
		p.expect(token.Indent)
		elseBody = p.parseBlock()
	}

	return &ast.If{Tok: tok, Cond: cond, Then: then, Elifs: elifs, Else: elseBody}
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur()
	p.advance()
	cond := p.parseExpression(precLowest)

	p.expect(token.Colon)
	p.expect(token.Indent)
	body := p.parseBlock()

	return &ast.While{Tok: tok, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.cur()
	p.advance()

	var vars []string
	vars = append(vars, p.parseNameToken())
	for p.peek().Kind == token.Comma {
		p.advance()
		p.advance()
		vars = append(vars, p.parseNameToken())
	}

	p.expect(token.KwIn)
	p.advance()
	seq := p.parseExpression(precLowest)

	p.expect(token.Colon)
	p.expect(token.Indent)
	body := p.parseBlock()

	return &ast.For{Tok: tok, Vars: vars, Seq: seq, Body: body}
}

func (p *Parser) parseMatch() ast.Statement {
	tok := p.cur()
	p.advance()

	var subjects []ast.Expr
	for p.cur().Kind != token.Colon {
		subjects = append(subjects, p.parseExpression(precLowest))
		p.advance()
		if p.cur().Kind != token.Colon {
			p.advance()
		}
	}
	p.expect(token.Indent)

	m := &ast.Match{Tok: tok, Subjects: subjects, Default: ast.No}
	for p.peek().Kind == token.KwCase {
		p.advance()
		p.advance()

		var patterns []ast.Expr
		for p.cur().Kind != token.Colon {
			if p.cur().Kind == token.Identifier && p.cur().Lexeme == "_" {
				patterns = append(patterns, ast.No)
			} else {
				patterns = append(patterns, p.parseExpression(precLowest))
			}
			p.advance()
			if p.cur().Kind != token.Colon {
				p.advance()
			}
		}
		p.expect(token.Indent)
		m.Cases = append(m.Cases, ast.MatchCase{Patterns: patterns, Body: p.parseBlock()})
	}

	if p.peek().Kind == token.Identifier && p.peek().Lexeme == "default" {
		p.advance()
		p.expect(token.Colon)
		p.expect(token.Indent)
		m.Default = p.parseBlock()
	}

	p.expect(token.Dedent)
	return m
}

func (p *Parser) parseScope() ast.Statement {
	tok := p.cur()
	p.expect(token.Colon)
	p.expect(token.Indent)
	return &ast.Scope{Tok: tok, Body: p.parseBlock()}
}

func (p *Parser) parseWith() ast.Statement {
	tok := p.cur()
	p.advance()

	var bindings []ast.WithBinding
	for {
		value := p.parseExpression(precLowest)
		bind := ast.WithBinding{Value: value}
		if p.peek().Kind == token.KwAs {
			p.advance()
			p.advance()
			bind.Var = p.parseNameToken()
		}
		bindings = append(bindings, bind)
		if p.peek().Kind != token.Comma {
			break
		}
		p.advance()
		p.advance()
	}

	p.expect(token.Colon)
	p.expect(token.Indent)
	return &ast.With{Tok: tok, Bindings: bindings, Body: p.parseBlock()}
}

func (p *Parser) parseTryExcept() ast.Statement {
	tok := p.cur()
	p.expect(token.Colon)
	p.expect(token.Indent)
	body := p.parseBlock()

	var clauses []ast.ExceptClause
	for p.peek().Kind == token.KwExcept {
		p.advance()
		p.advance()

		var types []ast.Expr
		for p.cur().Kind != token.Colon && p.cur().Kind != token.KwAs {
			types = append(types, p.parseExpression(precLowest))
			p.advance()
			if p.cur().Kind == token.Comma {
				p.advance()
			}
		}

		bindName := ""
		if p.cur().Kind == token.KwAs {
			p.advance()
			bindName = p.parseNameToken()
			p.advance()
		}

		p.expect(token.Indent)
		clauses = append(clauses, ast.ExceptClause{Types: types, BindName: bindName, Body: p.parseBlock()})
	}

	var elseBody ast.Statement = ast.No
	if p.peek().Kind == token.KwElse {
		p.advance()
		p.expect(token.Colon)
		p.expect(token.Indent)
		elseBody = p.parseBlock()
	}

	return &ast.TryExcept{Tok: tok, Body: body, Clauses: clauses, Else: elseBody}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur()
	var value ast.Expr = ast.No
	if p.peek().Kind != token.Newline {
		p.advance()
		value = p.parseExpression(precLowest)
	} else {
		p.advance()
	}
	return &ast.Return{Tok: tok, Value: value}
}

func (p *Parser) parseRaise() ast.Statement {
	tok := p.cur()
	var value ast.Expr = ast.No
	if p.peek().Kind != token.Newline {
		p.advance()
		value = p.parseExpression(precLowest)
	} else {
		p.advance()
	}
	return &ast.Raise{Tok: tok, Value: value}
}

func (p *Parser) parseAssert() ast.Statement {
	tok := p.cur()
	p.advance()
	cond := p.parseExpression(precLowest)
	return &ast.Assert{Tok: tok, Cond: cond}
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.cur()
	hasFrom := p.cur().Kind == token.KwFrom
	p.advance()

	module := p.parseImportName()
	var symbols []ast.ImportName

	if !hasFrom {
		if p.peek().Kind == token.KwAs {
			p.advance()
			p.advance()
			module.Alias = p.parseNameToken()
		}
		p.advanceOnNewline()
		return &ast.Import{Tok: tok, ModuleName: []ast.ImportName{module}}
	}

	p.expect(token.KwImport)
	for {
		p.advance()
		sym := p.parseImportName()
		if p.peek().Kind == token.KwAs {
			p.advance()
			p.advance()
			sym.Alias = p.parseNameToken()
		}
		symbols = append(symbols, sym)
		if p.peek().Kind == token.Comma {
			p.advance()
		}
		if p.cur().Kind != token.Comma {
			break
		}
	}

	p.advanceOnNewline()
	return &ast.Import{Tok: tok, ModuleName: []ast.ImportName{module}, Symbols: symbols}
}

func (p *Parser) parseImportName() ast.ImportName {
	name := p.parseNameToken()
	return ast.ImportName{Name: name}
}

// ---- decorators / modifiers ----------------------------------------------

func (p *Parser) parseDecoratorChain() ast.Statement {
	tok := p.cur()
	var items []ast.Expr
	for p.cur().Kind == token.At {
		p.expect(token.Identifier)
		items = append(items, p.parseExpression(precLowest))
		p.advance()
	}

	var body ast.Statement = ast.No
	switch p.cur().Kind {
	case token.KwDef:
		body = p.parseFunctionDef()
	case token.KwStatic:
		body = p.parseStaticModifier()
	default:
		p.errorAt(p.cur(), "a decorator must be followed by a function definition")
	}

	return &ast.Decorator{Tok: tok, Items: items, Body: body}
}

func (p *Parser) parseStaticModifier() ast.Statement {
	tok := p.cur()
	p.advance()
	return &ast.Static{Tok: tok, Body: p.parseStatement()}
}

func (p *Parser) parseInlineModifier() ast.Statement {
	tok := p.cur()
	p.advance()
	return &ast.Inline{Tok: tok, Body: p.parseStatement()}
}

func (p *Parser) parseExportModifier() ast.Statement {
	tok := p.cur()
	p.advance()
	return &ast.Export{Tok: tok, Body: p.parseStatement()}
}

// ---- expressions (Pratt loop) ---------------------------------------------

// parseExpression runs the Pratt loop and, as its final act, consumes
// a single trailing NEWLINE if one immediately follows — mirroring
// the original's advanceOnNewLine() at the tail of parseExpression.
// Nested calls reached through the loop itself go through
// parseExpressionRaw instead, which skips that consumption, so a
// NEWLINE is only ever eaten once, by the outermost call.
func (p *Parser) parseExpression(currPrec precedence) ast.Expr {
	left := p.parseExpressionRaw(currPrec)
	p.advanceOnNewline()
	return left
}

func (p *Parser) parseExpressionRaw(currPrec precedence) ast.Expr {
	var left ast.Expr

	switch p.cur().Kind {
	case token.Integer:
		left = &ast.Integer{Tok: p.cur(), Value: p.cur().Lexeme}
	case token.Decimal:
		left = &ast.Decimal{Tok: p.cur(), Value: p.cur().Lexeme}
	case token.None:
		left = &ast.None{Tok: p.cur()}
	case token.FormatString:
		left = &ast.String{Tok: p.cur(), Text: unquote(p.cur().Lexeme), Formatted: true}
	case token.RawString:
		left = &ast.String{Tok: p.cur(), Text: unquote(p.cur().Lexeme), Raw: true}
	case token.String:
		left = &ast.String{Tok: p.cur(), Text: unquote(p.cur().Lexeme)}
	case token.Bool:
		left = &ast.Bool{Tok: p.cur(), Value: p.cur().Lexeme == "True"}
	case token.Identifier:
		left = &ast.Identifier{Tok: p.cur(), Name: p.cur().Lexeme}
	case token.LParen:
		left = p.parseGroupedExpr()
	case token.LBracket:
		left = p.parseList()
	case token.LBrace:
		left = p.parseDict()
	case token.Minus, token.KwNot, token.BitNot:
		left = p.parsePrefixExpr()
	case token.KwCast:
		left = p.parseCast()
	case token.Star, token.BitAnd:
		left = p.parsePointerOrRefType()
	default:
		p.errorAt(p.cur(), p.cur().Lexeme+" is not an expression")
		left = ast.No
	}

	for precedenceOf(p.peek().Kind) > currPrec {
		p.advance()
		switch p.cur().Kind {
		case token.LParen:
			left = p.parseFunctionCall(left)
		case token.LBracket:
			left = p.parseListOrDictAccess(left)
		case token.Dot:
			left = p.parseDotExpr(left)
		case token.Arrow:
			left = p.parseArrowExpr(left)
		case token.Question:
			left = p.parseTernary(left)
		default:
			left = p.parseBinaryOp(left)
		}
	}

	return left
}

func (p *Parser) parseBinaryOp(left ast.Expr) ast.Expr {
	op := p.cur()
	prec := precedenceOf(op.Kind)
	p.advance()
	right := p.parseExpressionRaw(prec)
	return &ast.BinaryOp{Tok: op, Op: op.Lexeme, Left: left, Right: right}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	prefix := p.cur()
	p.advance()
	right := p.parseExpressionRaw(precPrefix)
	return &ast.PrefixOp{Tok: prefix, Op: prefix.Lexeme, Right: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.advance()
	expr := p.parseExpressionRaw(precLowest)
	p.expect(token.RParen)
	return expr
}

func (p *Parser) parseFunctionCall(left ast.Expr) ast.Expr {
	tok := p.cur()
	var args []ast.Expr

	if p.peek().Kind != token.RParen {
		for {
			p.advance()
			args = append(args, p.parseExpressionRaw(precLowest))
			p.advance()
			if p.cur().Kind != token.Comma {
				break
			}
		}
	} else {
		p.advance()
	}

	if p.cur().Kind != token.RParen {
		p.errorAt(p.cur(), "expected ), got "+p.cur().Kind.String()+" instead")
	}

	return &ast.FunctionCall{Tok: tok, Callee: left, Args: args}
}

// parseListOrDictAccess parses a[k] or a[i:j], and, matching the
// original's one grammar production doing double duty, rewrites
// a[k] = v into a Variable whose Name slot holds the access node —
// see ast.Variable's doc comment.
func (p *Parser) parseListOrDictAccess(left ast.Expr) ast.Expr {
	tok := p.cur()
	p.advance()

	key := p.parseExpressionRaw(precLowest)
	keys := []ast.Expr{key}

	if p.peek().Kind == token.Colon {
		p.advance()
		p.advance()
		keys = append(keys, p.parseExpressionRaw(precLowest))
	}

	p.expect(token.RBracket)
	node := &ast.ListOrDictAccess{Tok: tok, Container: left, Keys: keys}

	if p.peek().Kind != token.Assign {
		return node
	}

	p.advance()
	p.advance()
	value := p.parseExpressionRaw(precLowest)

	return &exprAsVariable{&ast.Variable{Tok: tok, Type: ast.No, Name: node, Value: value}}
}

// exprAsVariable lets subscript-assignment, reached through the
// Pratt loop's Expr-producing call chain, surface as a Statement once
// the loop returns — parseExpression's callers that can appear in
// statement position unwrap it back to *ast.Variable.
type exprAsVariable struct {
	*ast.Variable
}

func (p *Parser) parseDotExpr(left ast.Expr) ast.Expr {
	tok := p.cur()
	p.advance()
	referenced := p.parseExpressionRaw(precDotRef)
	return &ast.Dot{Tok: tok, Owner: left, Referenced: referenced}
}

func (p *Parser) parseArrowExpr(left ast.Expr) ast.Expr {
	tok := p.cur()
	p.advance()
	referenced := p.parseExpressionRaw(precDotRef)
	return &ast.Arrow{Tok: tok, Owner: left, Referenced: referenced}
}

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	tok := p.cur()
	p.advance()
	then := p.parseExpressionRaw(precLowest)
	p.expect(token.Colon)
	p.advance()
	elseExpr := p.parseExpressionRaw(precLowest)
	return &ast.TernaryIf{Tok: tok, Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseList() ast.Expr {
	tok := p.cur()
	var elems []ast.Expr

	if p.peek().Kind != token.RBracket {
		for {
			p.advance()
			elems = append(elems, p.parseExpressionRaw(precLowest))
			p.advance()
			if p.cur().Kind != token.Comma {
				break
			}
		}
	} else {
		p.advance()
	}

	return &ast.List{Tok: tok, Elements: elems}
}

func (p *Parser) parseDict() ast.Expr {
	tok := p.cur()
	var entries []ast.DictEntry

	if p.peek().Kind != token.RBrace {
		for {
			p.advance()
			key := p.parseExpressionRaw(precLowest)
			p.expect(token.Colon)
			p.advance()
			value := p.parseExpressionRaw(precLowest)
			entries = append(entries, ast.DictEntry{Key: key, Value: value})
			p.advance()
			if p.cur().Kind != token.Comma {
				break
			}
		}
	} else {
		p.advance()
	}

	return &ast.Dict{Tok: tok, Entries: entries}
}

func (p *Parser) parseCast() ast.Expr {
	tok := p.cur()
	p.advance()
	p.expect(token.Lt)
	p.advance()
	typ := p.parseType()
	p.advance()
	if p.cur().Kind != token.Gt {
		p.errorAt(p.cur(), "expected > to close cast type, got "+p.cur().Kind.String()+" instead")
	}
	p.expect(token.LParen)
	p.advance()
	value := p.parseExpressionRaw(precLowest)
	p.advance()
	if p.cur().Kind != token.RParen {
		p.errorAt(p.cur(), "expected ) to close cast, got "+p.cur().Kind.String()+" instead")
	}
	return &ast.Cast{Tok: tok, Type: typ, Value: value}
}

func (p *Parser) parsePointerOrRefType() ast.Expr {
	tok := p.cur()
	isPointer := tok.Kind == token.Star
	p.advance()
	base := p.parseExpressionRaw(precPrefix)
	if isPointer {
		return &ast.PointerType{Tok: tok, Base: base}
	}
	return &ast.RefType{Tok: tok, Base: base}
}

// ---- type expressions -----------------------------------------------------

func (p *Parser) parseType() ast.Expr {
	tok := p.cur()
	name := tok.Lexeme

	var generics []ast.Expr
	if p.peek().Kind == token.Lt {
		p.advance()
		for {
			p.advance()
			generics = append(generics, p.parseType())
			if p.peek().Kind != token.Comma {
				break
			}
			p.advance()
		}
		p.expect(token.Gt)
	}

	return &ast.Type{Tok: tok, Name: name, GenericArgs: generics}
}

// ---- small leaf helpers ----------------------------------------------------

func (p *Parser) parseName() ast.Expr {
	if p.cur().Kind != token.Identifier {
		p.errorAt(p.cur(), "expected an identifier, got "+p.cur().Kind.String()+" instead")
	}
	return &ast.Identifier{Tok: p.cur(), Name: p.cur().Lexeme}
}

func (p *Parser) parseNameToken() string {
	if p.cur().Kind != token.Identifier {
		p.errorAt(p.cur(), "expected an identifier, got "+p.cur().Kind.String()+" instead")
		return p.cur().Lexeme
	}
	return p.cur().Lexeme
}

// unquote strips the original source's surrounding quote characters
// (and, for f/r-prefixed lexemes, the leading prefix letter) without
// interpreting escapes — escape handling belongs to the generator's
// target-text emission, not the parser's node construction.
func unquote(lexeme string) string {
	s := lexeme
	if len(s) > 0 && (s[0] == 'f' || s[0] == 'r') {
		s = s[1:]
	}
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return s
}

// Package lexer is the external collaborator sketched by the compiler
// core: it turns raw source bytes into the Token stream the parser
// consumes. Its internal behavior carries no spec invariants beyond
// "produces a valid, EOF-terminated, indentation-aware stream" — the
// parser and code generator only depend on the token.Token contract.
package lexer

import (
	"strings"

	"github.com/agenthands/peregrine/pkg/compiler/token"
)

var keywords = map[string]token.Kind{
	"def": token.KwDef, "return": token.KwReturn, "if": token.KwIf,
	"elif": token.KwElif, "else": token.KwElse, "while": token.KwWhile,
	"for": token.KwFor, "in": token.KwIn, "is": token.KwIs,
	"break": token.KwBreak, "continue": token.KwContinue, "pass": token.KwPass,
	"const": token.KwConst, "type": token.KwType, "class": token.KwClass,
	"union": token.KwUnion, "enum": token.KwEnum, "match": token.KwMatch,
	"case": token.KwCase, "scope": token.KwScope, "with": token.KwWith,
	"as": token.KwAs, "try": token.KwTry, "except": token.KwExcept,
	"finally": token.KwFinally, "raise": token.KwRaise, "assert": token.KwAssert,
	"import": token.KwImport, "from": token.KwFrom, "and": token.KwAnd,
	"or": token.KwOr, "not": token.KwNot, "static": token.KwStatic,
	"inline": token.KwInline, "export": token.KwExport, "lambda": token.KwLambda,
	"cast": token.KwCast, "True": token.Bool, "False": token.Bool,
	"None": token.None,
}

// Scanner performs indentation-aware lexical analysis on Peregrine
// source.
type Scanner struct {
	source []byte
	lines  []string

	cursor int
	line   int
	column int

	indents     []int
	pending     []token.Token
	parenDepth  int
	atLineStart bool
	startOfFile bool
}

// NewScanner creates a scanner positioned at the start of source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source:      source,
		lines:       strings.Split(string(source), "\n"),
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
		startOfFile: true,
	}
}

// Next returns the next token in the stream.
func (s *Scanner) Next() token.Token {
	if len(s.pending) > 0 {
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok
	}

	if s.atLineStart && s.parenDepth == 0 {
		if tok, ok := s.handleIndentation(); ok {
			return tok
		}
	}

	s.skipBlanksAndComments()

	if s.cursor >= len(s.source) {
		return s.closeIndents()
	}

	ch := s.peekByte()
	start := s.cursor
	line, col := s.line, s.column

	switch {
	case ch == '\n':
		s.advanceByte()
		s.line++
		s.column = 1
		s.atLineStart = true
		if s.parenDepth > 0 {
			return s.Next()
		}
		return s.make(token.Newline, "\\n", line, col, start)
	case isDigit(ch):
		return s.scanNumber(line, col, start)
	case ch == '"' || ch == '\'':
		return s.scanString(line, col, start, false)
	case isIdentStart(ch):
		return s.scanIdentifier(line, col, start)
	default:
		return s.scanOperator(line, col, start)
	}
}

func (s *Scanner) handleIndentation() (token.Token, bool) {
	indent := 0
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' {
			indent++
			s.advanceByte()
		} else if ch == '\t' {
			indent += 8
			s.advanceByte()
		} else {
			break
		}
	}

	// Blank or comment-only lines don't affect indentation.
	if s.cursor >= len(s.source) || s.source[s.cursor] == '\n' || s.source[s.cursor] == '#' {
		s.atLineStart = false
		return token.Token{}, false
	}

	s.atLineStart = false
	top := s.indents[len(s.indents)-1]
	line, col := s.line, 1

	if indent > top {
		s.indents = append(s.indents, indent)
		return s.make(token.Indent, "", line, col, s.cursor), true
	}

	if indent < top {
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > indent {
			s.indents = s.indents[:len(s.indents)-1]
			s.pending = append(s.pending, s.make(token.Dedent, "", line, col, s.cursor))
		}
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok, true
	}

	return token.Token{}, false
}

func (s *Scanner) closeIndents() token.Token {
	if len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		return s.make(token.Dedent, "", s.line, s.column, s.cursor)
	}
	return s.make(token.EOF, "", s.line, s.column, s.cursor)
}

func (s *Scanner) skipBlanksAndComments() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			s.advanceByte()
			continue
		}
		if ch == '#' {
			for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
				s.advanceByte()
			}
			continue
		}
		break
	}
}

func (s *Scanner) scanNumber(line, col, start int) token.Token {
	isDecimal := false
	for s.cursor < len(s.source) && (isDigit(s.source[s.cursor]) || s.source[s.cursor] == '_') {
		s.advanceByte()
	}
	if s.cursor < len(s.source) && s.source[s.cursor] == '.' && s.cursor+1 < len(s.source) && isDigit(s.source[s.cursor+1]) {
		isDecimal = true
		s.advanceByte()
		for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
			s.advanceByte()
		}
	}
	kind := token.Integer
	if isDecimal {
		kind = token.Decimal
	}
	return s.make(kind, string(s.source[start:s.cursor]), line, col, start)
}

func (s *Scanner) scanString(line, col, start int, raw bool) token.Token {
	quote := s.source[s.cursor]
	s.advanceByte()
	for s.cursor < len(s.source) && s.source[s.cursor] != quote {
		if s.source[s.cursor] == '\\' && s.cursor+1 < len(s.source) {
			s.advanceByte()
		}
		if s.source[s.cursor] == '\n' {
			s.line++
			s.column = 1
		}
		s.advanceByte()
	}
	if s.cursor >= len(s.source) {
		return s.make(token.Error, string(s.source[start:s.cursor]), line, col, start)
	}
	s.advanceByte() // closing quote
	kind := token.String
	if raw {
		kind = token.RawString
	}
	return s.make(kind, string(s.source[start:s.cursor]), line, col, start)
}

func (s *Scanner) scanIdentifier(line, col, start int) token.Token {
	for s.cursor < len(s.source) && (isIdentPart(s.source[s.cursor])) {
		s.advanceByte()
	}
	lexeme := string(s.source[start:s.cursor])

	if lexeme == "f" && s.cursor < len(s.source) && (s.source[s.cursor] == '"' || s.source[s.cursor] == '\'') {
		tok := s.scanString(line, col, s.cursor, false)
		tok.Kind = token.FormatString
		tok.Lexeme = lexeme + tok.Lexeme
		return tok
	}
	if lexeme == "r" && s.cursor < len(s.source) && (s.source[s.cursor] == '"' || s.source[s.cursor] == '\'') {
		tok := s.scanString(line, col, s.cursor, true)
		tok.Lexeme = lexeme + tok.Lexeme
		return tok
	}

	if kind, ok := keywords[lexeme]; ok {
		if kind == token.KwNot {
			save := s.cursor
			saveCol := s.column
			s.skipBlanksAndComments()
			if s.matchKeyword("in") {
				return s.make(token.KwNotIn, "not in", line, col, start)
			}
			s.cursor, s.column = save, saveCol
		}
		if kind == token.KwIs {
			save := s.cursor
			saveCol := s.column
			s.skipBlanksAndComments()
			if s.matchKeyword("not") {
				return s.make(token.KwIsNot, "is not", line, col, start)
			}
			s.cursor, s.column = save, saveCol
		}
		return s.make(kind, lexeme, line, col, start)
	}

	return s.make(token.Identifier, lexeme, line, col, start)
}

func (s *Scanner) matchKeyword(word string) bool {
	end := s.cursor + len(word)
	if end > len(s.source) || string(s.source[s.cursor:end]) != word {
		return false
	}
	if end < len(s.source) && isIdentPart(s.source[end]) {
		return false
	}
	for i := 0; i < len(word); i++ {
		s.advanceByte()
	}
	return true
}

type op struct {
	text string
	kind token.Kind
}

// longest-match-first punctuation table.
var operators = []op{
	{"**", token.Pow}, {"//", token.FloorDiv}, {"->", token.Arrow},
	{"==", token.Eq}, {"!=", token.NotEq}, {"<=", token.LtEq},
	{">=", token.GtEq}, {"<<", token.Shl}, {">>", token.Shr},
	{"+=", token.PlusEq}, {"-=", token.MinusEq}, {"*=", token.StarEq},
	{"/=", token.SlashEq},
	{"(", token.LParen}, {")", token.RParen}, {"[", token.LBracket},
	{"]", token.RBracket}, {"{", token.LBrace}, {"}", token.RBrace},
	{":", token.Colon}, {";", token.Semicolon}, {",", token.Comma},
	{".", token.Dot}, {"=", token.Assign}, {"@", token.At},
	{"?", token.Question}, {"+", token.Plus}, {"-", token.Minus},
	{"*", token.Star}, {"/", token.Slash}, {"%", token.Percent},
	{"&", token.BitAnd}, {"|", token.BitOr}, {"^", token.BitXor},
	{"~", token.BitNot}, {"<", token.Lt}, {">", token.Gt},
}

func (s *Scanner) scanOperator(line, col, start int) token.Token {
	rest := s.source[s.cursor:]
	for _, candidate := range operators {
		if len(rest) >= len(candidate.text) && string(rest[:len(candidate.text)]) == candidate.text {
			for i := 0; i < len(candidate.text); i++ {
				s.advanceByte()
			}
			switch candidate.kind {
			case token.LParen, token.LBracket, token.LBrace:
				s.parenDepth++
			case token.RParen, token.RBracket, token.RBrace:
				if s.parenDepth > 0 {
					s.parenDepth--
				}
			}
			return s.make(candidate.kind, candidate.text, line, col, start)
		}
	}
	s.advanceByte()
	return s.make(token.Error, string(s.source[start:s.cursor]), line, col, start)
}

func (s *Scanner) make(kind token.Kind, lexeme string, line, col, start int) token.Token {
	statement := ""
	if line-1 >= 0 && line-1 < len(s.lines) {
		statement = s.lines[line-1]
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col, Statement: statement}
}

func (s *Scanner) peekByte() byte {
	if s.cursor >= len(s.source) {
		return 0
	}
	return s.source[s.cursor]
}

func (s *Scanner) advanceByte() {
	s.cursor++
	s.column++
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Tokenize drains the scanner into a slice, the shape the parser
// actually consumes (random access, matching the original's
// vector-indexed token stream).
func Tokenize(source []byte) []token.Token {
	s := NewScanner(source)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

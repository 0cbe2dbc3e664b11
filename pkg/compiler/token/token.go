// Package token defines the lexical contract the parser consumes. The
// scanner that produces these values lives in package lexer and is a
// thin collaborator: only the shape below is load-bearing for the parser
// and code generator.
package token

// Kind enumerates the lexical categories recognized by the parser.
type Kind uint8

const (
	EOF Kind = iota
	Error

	Identifier
	Integer
	Decimal
	String
	FormatString
	RawString
	Bool
	None

	Newline
	Indent
	Dedent

	// Keywords
	KwDef
	KwReturn
	KwIf
	KwElif
	KwElse
	KwWhile
	KwFor
	KwIn
	KwNotIn
	KwIs
	KwIsNot
	KwBreak
	KwContinue
	KwPass
	KwConst
	KwType
	KwClass
	KwUnion
	KwEnum
	KwMatch
	KwCase
	KwScope
	KwWith
	KwAs
	KwTry
	KwExcept
	KwFinally
	KwRaise
	KwAssert
	KwImport
	KwFrom
	KwAnd
	KwOr
	KwNot
	KwStatic
	KwInline
	KwExport
	KwLambda
	KwCast

	// Punctuation / operators
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Colon
	Semicolon
	Comma
	Dot
	Arrow   // ->
	Assign  // =
	At      // @
	Question

	Plus
	Minus
	Star
	Slash
	FloorDiv // //
	Percent
	Pow      // **
	BitAnd
	BitOr
	BitXor
	BitNot
	Shl
	Shr

	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq

	PlusEq
	MinusEq
	StarEq
	SlashEq
)

// Token is an immutable, read-only lexical unit fed to the parser.
type Token struct {
	Kind      Kind
	Lexeme    string
	Line      int
	Column    int
	Statement string // full source line, for diagnostics
}

// IsEOF reports whether tok terminates the stream.
func (tok Token) IsEOF() bool { return tok.Kind == EOF }

var names = map[Kind]string{
	EOF: "EOF", Error: "Error", Identifier: "Identifier", Integer: "Integer",
	Decimal: "Decimal", String: "String", FormatString: "FormatString",
	RawString: "RawString", Bool: "Bool", None: "None", Newline: "Newline",
	Indent: "Indent", Dedent: "Dedent", KwDef: "def", KwReturn: "return",
	KwIf: "if", KwElif: "elif", KwElse: "else", KwWhile: "while", KwFor: "for",
	KwIn: "in", KwNotIn: "not in", KwIs: "is", KwIsNot: "is not",
	KwBreak: "break", KwContinue: "continue", KwPass: "pass", KwConst: "const",
	KwType: "type", KwClass: "class", KwUnion: "union", KwEnum: "enum",
	KwMatch: "match", KwCase: "case", KwScope: "scope", KwWith: "with",
	KwAs: "as", KwTry: "try", KwExcept: "except", KwFinally: "finally",
	KwRaise: "raise", KwAssert: "assert", KwImport: "import", KwFrom: "from",
	KwAnd: "and", KwOr: "or", KwNot: "not", KwStatic: "static",
	KwInline: "inline", KwExport: "export", KwLambda: "lambda", KwCast: "cast",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{",
	RBrace: "}", Colon: ":", Semicolon: ";", Comma: ",", Dot: ".",
	Arrow: "->", Assign: "=", At: "@", Question: "?", Plus: "+", Minus: "-",
	Star: "*", Slash: "/", FloorDiv: "//", Percent: "%", Pow: "**",
	BitAnd: "&", BitOr: "|", BitXor: "^", BitNot: "~", Shl: "<<", Shr: ">>",
	Eq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

package parser

import "github.com/agenthands/peregrine/pkg/compiler/token"

// Precedence classes, lowest to highest, realized as a constant lookup
// table indexed by token kind (Design Note, spec.md §9: "Pratt table as
// data") rather than switch nests.
type precedence int

const (
	precLowest precedence = iota
	precTernary
	precAndOr
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precBitShift
	precSum
	precMul
	precExpo
	precPrefix
	precDotRef
	precListAccess
	precCall
)

var infixPrecedence = map[token.Kind]precedence{
	token.Question: precTernary,

	token.KwAnd: precAndOr,
	token.KwOr:  precAndOr,

	token.KwNot: precNot,

	token.Eq:       precCompare,
	token.NotEq:    precCompare,
	token.Lt:       precCompare,
	token.Gt:       precCompare,
	token.LtEq:     precCompare,
	token.GtEq:     precCompare,
	token.KwIn:     precCompare,
	token.KwNotIn:  precCompare,
	token.KwIs:     precCompare,
	token.KwIsNot:  precCompare,

	token.BitOr:  precBitOr,
	token.BitXor: precBitXor,
	token.BitAnd: precBitAnd,
	token.Shl:    precBitShift,
	token.Shr:    precBitShift,

	token.Plus:  precSum,
	token.Minus: precSum,

	token.Star:     precMul,
	token.Slash:    precMul,
	token.FloorDiv: precMul,
	token.Percent:  precMul,

	token.Pow: precExpo,

	token.Dot:   precDotRef,
	token.Arrow: precDotRef,

	token.LBracket: precListAccess,

	token.LParen: precCall,
}

func precedenceOf(k token.Kind) precedence {
	if p, ok := infixPrecedence[k]; ok {
		return p
	}
	return precLowest
}

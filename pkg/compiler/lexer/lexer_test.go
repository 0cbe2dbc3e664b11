package lexer_test

import (
	"testing"

	"github.com/agenthands/peregrine/pkg/compiler/lexer"
	"github.com/agenthands/peregrine/pkg/compiler/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeSimpleAssignment(t *testing.T) {
	toks := lexer.Tokenize([]byte("x int = 1 + 2 * 3\n"))
	got := kinds(toks)
	want := []token.Kind{
		token.Identifier, token.Identifier, token.Assign, token.Integer,
		token.Plus, token.Integer, token.Star, token.Integer, token.Newline,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeIndentedBlock(t *testing.T) {
	src := "def main():\n    pass\n"
	toks := lexer.Tokenize([]byte(src))
	got := kinds(toks)
	want := []token.Kind{
		token.KwDef, token.Identifier, token.LParen, token.RParen,
		token.Colon, token.Newline, token.Indent, token.KwPass,
		token.Newline, token.Dedent, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeDedentToZero(t *testing.T) {
	src := "if x:\n    pass\ny = 1\n"
	toks := lexer.Tokenize([]byte(src))
	got := kinds(toks)
	foundDedent := false
	for _, k := range got {
		if k == token.Dedent {
			foundDedent = true
		}
	}
	if !foundDedent {
		t.Fatalf("expected a Dedent token, got %v", got)
	}
	if got[len(got)-1] != token.EOF {
		t.Errorf("stream must end in EOF, got %v", got[len(got)-1])
	}
}

func TestTokenizeFormatAndRawStrings(t *testing.T) {
	toks := lexer.Tokenize([]byte(`f"hi {x}"` + "\n" + `r"raw\n"` + "\n"))
	if toks[0].Kind != token.FormatString {
		t.Errorf("expected FormatString, got %v", toks[0].Kind)
	}
	if toks[2].Kind != token.RawString {
		t.Errorf("expected RawString, got %v", toks[2].Kind)
	}
}

func TestTokenizeNotInAndIsNot(t *testing.T) {
	toks := lexer.Tokenize([]byte("x not in y\nx is not y\n"))
	got := kinds(toks)
	if got[1] != token.KwNotIn {
		t.Errorf("expected KwNotIn, got %v", got[1])
	}
	if got[5] != token.KwIsNot {
		t.Errorf("expected KwIsNot, got %v", got[5])
	}
}

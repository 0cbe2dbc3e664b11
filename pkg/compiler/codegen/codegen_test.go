package codegen_test

import (
	"strings"
	"testing"

	"github.com/agenthands/peregrine/pkg/compiler/codegen"
	"github.com/agenthands/peregrine/pkg/compiler/lexer"
	"github.com/agenthands/peregrine/pkg/compiler/parser"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

// lower parses and lowers src, failing the test on any parse diagnostic.
func lower(t *testing.T, src string) string {
	t.Helper()
	toks := lexer.Tokenize([]byte(src))
	p := parser.New(toks, "test.pe")
	prog := p.Parse()
	require.False(t, p.Sink().HasErrors(), "unexpected diagnostics: %v", p.Sink().Diagnostics())

	var out strings.Builder
	err := codegen.Generate(&out, prog, "test.pe", false, nil)
	require.NoError(t, err)
	return out.String()
}

// requireContains asserts substr appears in got, rendering a readable
// diff against the nearest match when it doesn't.
func requireContains(t *testing.T, got, substr string) {
	t.Helper()
	if strings.Contains(got, substr) {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(substr, got, false)
	t.Fatalf("expected output to contain %q, got:\n%s\ndiff:\n%s", substr, got, dmp.DiffPrettyText(diffs))
}

func TestMainFunctionLowersToIntMain(t *testing.T) {
	out := lower(t, "def main():\n    pass\n")
	requireContains(t, out, "int main (")
	requireContains(t, out, "return 0;\n}")
}

func TestGlobalVariableGetsFilePrefixedMangledName(t *testing.T) {
	out := lower(t, "int counter = 1\n")
	requireContains(t, out, "____PEREGRINE____PEREGRINE____")
	requireContains(t, out, "____PEREGRINE____PEREGRINE____test____pecounter")
}

func TestFunctionParamsAreMangledLocal(t *testing.T) {
	out := lower(t, "def add(int a, int b) -> int:\n    return a + b\n")
	requireContains(t, out, "int ____PEREGRINE____PEREGRINE____test____peadd")
	requireContains(t, out, "____PEREGRINE____PEREGRINE____a")
}

func TestIfElifElseLowersToCBraces(t *testing.T) {
	out := lower(t, "if x:\n    pass\nelif y:\n    pass\nelse:\n    pass\n")
	requireContains(t, out, "if (")
	requireContains(t, out, "else if (")
	requireContains(t, out, "else {")
}

func TestForLoopUsesIteratorProtocolScaffold(t *testing.T) {
	out := lower(t, "for x in items:\n    pass\n")
	requireContains(t, out, "____PEREGRINE____VALUE")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______iter__")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______iterate__")
}

func TestForLoopWithMultipleBindingsUsesTempTuple(t *testing.T) {
	out := lower(t, "for k, v in items:\n    pass\n")
	requireContains(t, out, "____PEREGRINE____TEMP")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______getitem__(0)")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______getitem__(1)")
}

func TestWithStatementUsesContextManagerProtocol(t *testing.T) {
	out := lower(t, "with open(\"f\") as f:\n    pass\n")
	requireContains(t, out, "CONTEXT____MANAGER____PEREGRINE____0")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______enter__")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______end__")
}

func TestTryExceptLowersToCatchBlock(t *testing.T) {
	out := lower(t, "try:\n    pass\nexcept ValueError as e:\n    pass\n")
	requireContains(t, out, "try{")
	requireContains(t, out, "catch(error __PEREGRINE__exception){")
}

func TestTryExceptWithElseSuppressesRethrow(t *testing.T) {
	out := lower(t, "try:\n    pass\nexcept ValueError:\n    pass\nelse:\n    pass\n")
	require.NotContains(t, out, "throw __PEREGRINE__exception;\n}\n}")
}

func TestMatchLowersToWhileTrueWithBreak(t *testing.T) {
	out := lower(t, "match x:\n    case 1:\n        pass\n    case _:\n        pass\n")
	requireContains(t, out, "while (true) {")
	requireContains(t, out, "break;")
}

func TestMatchCatchAllSkipsEqualityTest(t *testing.T) {
	out := lower(t, "match x:\n    case _:\n        pass\n")
	require.NotContains(t, out, "x==")
}

func TestAssertLowersToPrintfAndThrow(t *testing.T) {
	out := lower(t, "def main():\n    assert x\n")
	requireContains(t, out, "printf(\"AssertionError")
	requireContains(t, out, "throw error________PEREGRINE____PEREGRINE____AssertionError")
}

func TestTupleReturnFunctionTakesOutParams(t *testing.T) {
	out := lower(t, "def divmod(int a, int b) -> int, int:\n    return [a, b]\n")
	requireContains(t, out, "____PEREGRINE____RETURN____0=NULL")
	requireContains(t, out, "____PEREGRINE____RETURN____1=NULL")
	requireContains(t, out, "*____PEREGRINE____RETURN____0=")
	requireContains(t, out, "*____PEREGRINE____RETURN____1=")
}

func TestSubscriptAccessLowersToGetItemCall(t *testing.T) {
	out := lower(t, "int x = arr[0]\n")
	requireContains(t, out, "____PEREGRINE____PEREGRINE______getitem__(")
}

func TestPowerOperatorLowersToHelperCall(t *testing.T) {
	out := lower(t, "int x = 2 ** 3\n")
	requireContains(t, out, "_PEREGRINE_POWER(")
}

func TestFloorDivLowersToHelperCall(t *testing.T) {
	out := lower(t, "int x = 7 // 2\n")
	requireContains(t, out, "_PEREGRINE_FLOOR(")
}

func TestEnumFieldsAreQualifiedAndMangled(t *testing.T) {
	out := lower(t, "enum Color:\n    Red\n    Green\n")
	requireContains(t, out, "typedef enum{")
	requireContains(t, out, "Color____")
}

func TestClassDefEmitsPublicMembersAfterOtherStatements(t *testing.T) {
	out := lower(t, "class Point:\n    int x\n    int y\n    def sum(self) -> int:\n        return self.x\n")
	requireContains(t, out, "class ")
	requireContains(t, out, "public:")
}

func TestDecoratorFoldsIntoNestedCall(t *testing.T) {
	out := lower(t, "@cached\ndef slow():\n    pass\n")
	requireContains(t, out, "cached")
	requireContains(t, out, "[](")
}

func TestTopLevelDecoratedFunctionCapturesNothing(t *testing.T) {
	out := lower(t, "@memoize\ndef f(int x) -> int:\n    return x\n")
	requireContains(t, out, "[](int ")
	require.NotContains(t, out, "[=](int ")
	requireContains(t, out, ")mutable->int {")
}

func TestNestedDecoratedFunctionCapturesByValue(t *testing.T) {
	out := lower(t, "def outer():\n    @memoize\n    def f(int x) -> int:\n        return x\n")
	requireContains(t, out, "[=](int ")
}

func TestPreambleIncludesErrorEnum(t *testing.T) {
	out := lower(t, "def main():\n    pass\n")
	requireContains(t, out, "#include <cstdio>")
	requireContains(t, out, "typedef enum{error________PEREGRINE____PEREGRINE____AssertionError,error________PEREGRINE____PEREGRINE____ZeroDivisionError} error;")
}

func TestChainedArrowAccessVisitsEveryLink(t *testing.T) {
	out := lower(t, "int x = p->next->value\n")
	requireContains(t, out, "->____PEREGRINE____PEREGRINE____next->____PEREGRINE____PEREGRINE____value")
}

func TestMultipleAssignUsesTempSlots(t *testing.T) {
	out := lower(t, "a, b = b, a\n")
	requireContains(t, out, "_____PEREGRINE____temp____0")
	requireContains(t, out, "_____PEREGRINE____temp____1")
}

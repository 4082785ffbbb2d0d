package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallc-lang/smallc/internal/codegen"
	"github.com/smallc-lang/smallc/internal/lexer"
	"github.com/smallc-lang/smallc/internal/parser"
	"github.com/smallc-lang/smallc/internal/sema"
	"github.com/smallc-lang/smallc/internal/tactile"
)

func emitSource(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks, []byte(src))
	require.NoError(t, err)
	result, err := sema.Analyze(prog, []byte(src))
	require.NoError(t, err)
	ir := tactile.Lower(prog, []byte(src), result.MaxVariableID+1, result.MaxLabel)
	return Emit(codegen.Generate(ir))
}

func TestEmitIncludesGlobalDirectiveAndLabel(t *testing.T) {
	out := emitSource(t, `int main(void) { return 0; }`)
	require.Contains(t, out, "\t.globl main\n")
	require.Contains(t, out, "main:\n")
}

func TestEmitPrologueOmitsSubqWhenFrameIsEmpty(t *testing.T) {
	out := emitSource(t, `int main(void) { return 7; }`)
	require.Contains(t, out, "pushq %rbp")
	require.Contains(t, out, "movq %rsp, %rbp")
	require.NotContains(t, out, "subq")
}

func TestEmitPrologueIncludesSubqWhenLocalsExist(t *testing.T) {
	out := emitSource(t, `
		int main(void) {
			int x = 1;
			int y = 2;
			return x + y;
		}
	`)
	require.Contains(t, out, "subq $")
}

func TestEmitRetExpandsToFullEpilogue(t *testing.T) {
	out := emitSource(t, `int main(void) { return 0; }`)
	require.Contains(t, out, "movq %rbp, %rsp\n")
	require.Contains(t, out, "popq %rbp\n")
	require.Contains(t, out, "ret\n")
}

func TestEmitTrailerNoteAppearsOnce(t *testing.T) {
	out := emitSource(t, `
		int add(int a, int b) { return a + b; }
		int main(void) { return add(1, 2); }
	`)
	count := strings.Count(out, ".section .note.GNU-stack")
	require.Equal(t, 1, count)
	require.True(t, strings.HasSuffix(out, ".section .note.GNU-stack,\"\",@progbits\n"))
}

func TestEmitLabelsUseDotLFormat(t *testing.T) {
	out := emitSource(t, `
		int main(void) {
			int i = 0;
			while (i < 3) {
				i = i + 1;
			}
			return i;
		}
	`)
	require.Regexp(t, `\.L\d+:`, out)
	require.Regexp(t, `j\w+ \.L\d+`, out)
}

func TestEmitComparisonUsesSetCC(t *testing.T) {
	out := emitSource(t, `
		int main(void) {
			int x = 1;
			int y = 2;
			return x < y;
		}
	`)
	require.Regexp(t, `setl `, out)
}

func TestEmitCallUsesDirectMnemonic(t *testing.T) {
	out := emitSource(t, `
		int add(int a, int b) { return a + b; }
		int main(void) { return add(1, 2); }
	`)
	require.Contains(t, out, "call add\n")
}

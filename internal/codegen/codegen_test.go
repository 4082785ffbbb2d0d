package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallc-lang/smallc/internal/lexer"
	"github.com/smallc-lang/smallc/internal/parser"
	"github.com/smallc-lang/smallc/internal/sema"
	"github.com/smallc-lang/smallc/internal/tactile"
)

func generate(t *testing.T, src string) Program {
	t.Helper()
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks, []byte(src))
	require.NoError(t, err)
	result, err := sema.Analyze(prog, []byte(src))
	require.NoError(t, err)
	ir := tactile.Lower(prog, []byte(src), result.MaxVariableID+1, result.MaxLabel)
	return Generate(ir)
}

// noPseudosSurvive asserts §8's "no pseudos survive" invariant.
func noPseudosSurvive(t *testing.T, fn Function) {
	t.Helper()
	check := func(op Operand) {
		_, ok := op.(Pseudo)
		require.Falsef(t, ok, "pseudo operand survived legalization in %s", fn.Name)
	}
	for _, inst := range fn.Body {
		switch v := inst.(type) {
		case *MovInst:
			check(v.Src)
			check(v.Dst)
		case *UnaryInst:
			check(v.Dst)
		case *BinaryInst:
			check(v.Src)
			check(v.Dst)
		case *IdivInst:
			check(v.Operand)
		case *CmpInst:
			check(v.Src)
			check(v.Dst)
		case *SetCCInst:
			check(v.Dst)
		case *PushInst:
			check(v.Operand)
		}
	}
}

// noTwoStackOperands asserts §8's "two-memory-operand absence"
// invariant for Mov, Binary, and Cmp instructions.
func noTwoStackOperands(t *testing.T, fn Function) {
	t.Helper()
	for _, inst := range fn.Body {
		switch v := inst.(type) {
		case *MovInst:
			require.Falsef(t, isStack(v.Src) && isStack(v.Dst), "mov has two stack operands in %s", fn.Name)
		case *BinaryInst:
			require.Falsef(t, isStack(v.Src) && isStack(v.Dst), "binary has two stack operands in %s", fn.Name)
		case *CmpInst:
			require.Falsef(t, isStack(v.Src) && isStack(v.Dst), "cmp has two stack operands in %s", fn.Name)
		}
	}
}

func TestGenerateSimpleReturn(t *testing.T) {
	prog := generate(t, `int main(void) { return 2 + 3 * 4; }`)
	fn := prog.Functions[0]
	noPseudosSurvive(t, fn)
	noTwoStackOperands(t, fn)
	require.IsType(t, &RetInst{}, fn.Body[len(fn.Body)-1])
}

func TestGenerateAllocateStackPlaceholderResolved(t *testing.T) {
	prog := generate(t, `
		int main(void) {
			int a = 1;
			int b = 2;
			int c = a + b;
			return c;
		}
	`)
	fn := prog.Functions[0]
	alloc, ok := fn.Body[0].(*AllocateStack)
	require.True(t, ok)
	require.Greater(t, alloc.N, 0)
}

func TestGenerateComparisonUsesSetCC(t *testing.T) {
	prog := generate(t, `
		int main(void) {
			int x = 1;
			int y = 2;
			return x < y;
		}
	`)
	fn := prog.Functions[0]
	noPseudosSurvive(t, fn)
	noTwoStackOperands(t, fn)

	var sawSetCC bool
	for _, inst := range fn.Body {
		if set, ok := inst.(*SetCCInst); ok && set.Cond == L {
			sawSetCC = true
		}
	}
	require.True(t, sawSetCC)
}

func TestGenerateDivModUsesCdqAndIdiv(t *testing.T) {
	prog := generate(t, `
		int main(void) {
			int x = 10;
			int y = 3;
			return x / y + x % y;
		}
	`)
	fn := prog.Functions[0]
	noPseudosSurvive(t, fn)
	noTwoStackOperands(t, fn)

	var sawCdq, sawIdiv int
	for _, inst := range fn.Body {
		switch inst.(type) {
		case *CdqInst:
			sawCdq++
		case *IdivInst:
			sawIdiv++
		}
	}
	require.Equal(t, 2, sawCdq)
	require.Equal(t, 2, sawIdiv)
}

func TestGenerateMultiplyWithStackDestinationRoutesThroughR11(t *testing.T) {
	prog := generate(t, `
		int main(void) {
			int a = 2;
			int b = 3;
			int c = 4;
			int d = 5;
			int total = a * b + c * d;
			return total;
		}
	`)
	fn := prog.Functions[0]
	noPseudosSurvive(t, fn)
	noTwoStackOperands(t, fn)

	var sawMul bool
	for _, inst := range fn.Body {
		if b, ok := inst.(*BinaryInst); ok && b.Op == OpMul {
			require.Equal(t, Reg{R: R11}, b.Dst)
			sawMul = true
		}
	}
	require.True(t, sawMul)
}

func TestGenerateCallPassesArgsInRegisters(t *testing.T) {
	prog := generate(t, `
		int add(int a, int b) { return a + b; }
		int main(void) {
			return add(1, 2);
		}
	`)
	require.Len(t, prog.Functions, 2)
	main := prog.Functions[1]
	noPseudosSurvive(t, main)
	noTwoStackOperands(t, main)

	var sawCall bool
	argRegs := map[Register]bool{}
	for _, inst := range main.Body {
		if c, ok := inst.(*CallInst); ok {
			require.Equal(t, "add", c.Name)
			sawCall = true
		}
		if m, ok := inst.(*MovInst); ok {
			if r, ok := m.Dst.(Reg); ok {
				argRegs[r.R] = true
			}
		}
	}
	require.True(t, sawCall)
	require.True(t, argRegs[DI])
	require.True(t, argRegs[SI])

	addFn := prog.Functions[0]
	noPseudosSurvive(t, addFn)
	noTwoStackOperands(t, addFn)
}

func TestLegalizeIsIdempotent(t *testing.T) {
	prog := generate(t, `
		int main(void) {
			int a = 1;
			int b = 2;
			int c = 3;
			int d = 4;
			return a * b + c * d - (a < b);
		}
	`)
	fn := prog.Functions[0]
	twice := Legalize(Program{Functions: []Function{fn}})
	require.Equal(t, fn.Body, twice.Functions[0].Body)
}

func TestGenerateCallWithSevenArgsSpillsToStack(t *testing.T) {
	prog := generate(t, `
		int sum7(int a, int b, int c, int d, int e, int f, int g) {
			return a + b + c + d + e + f + g;
		}
		int main(void) {
			return sum7(1, 2, 3, 4, 5, 6, 7);
		}
	`)
	main := prog.Functions[1]
	noPseudosSurvive(t, main)

	var pushes int
	for _, inst := range main.Body {
		if _, ok := inst.(*PushInst); ok {
			pushes++
		}
	}
	require.Equal(t, 1, pushes)
}

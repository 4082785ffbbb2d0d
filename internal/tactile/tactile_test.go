package tactile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallc-lang/smallc/internal/lexer"
	"github.com/smallc-lang/smallc/internal/parser"
	"github.com/smallc-lang/smallc/internal/sema"
)

func lowerSource(t *testing.T, src string) Program {
	t.Helper()
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	prog, err := parser.Parse(toks, []byte(src))
	require.NoError(t, err)
	result, err := sema.Analyze(prog, []byte(src))
	require.NoError(t, err)
	return Lower(prog, []byte(src), result.MaxVariableID+1, result.MaxLabel)
}

// labelClosure asserts §8's "label closure" universal invariant: every
// jump in a function targets exactly one label defined in that same
// function.
func labelClosure(t *testing.T, fn Function) {
	t.Helper()
	defined := map[Label]int{}
	var targets []Label
	for _, inst := range fn.Body {
		switch v := inst.(type) {
		case *LabelInst:
			defined[v.L]++
		case *JumpInst:
			targets = append(targets, v.Target)
		case *JumpIfZeroInst:
			targets = append(targets, v.Target)
		case *JumpIfNotZeroInst:
			targets = append(targets, v.Target)
		}
	}
	for _, target := range targets {
		require.Equalf(t, 1, defined[target], "label %v referenced but not defined exactly once in %s", target, fn.Name)
	}
}

func TestLowerSimpleReturn(t *testing.T) {
	prog := lowerSource(t, `int main(void) { return 42; }`)
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	require.Equal(t, "main", fn.Name)
	require.IsType(t, &ReturnInst{}, fn.Body[0])
	ret := fn.Body[0].(*ReturnInst)
	require.Equal(t, Constant{N: 42}, ret.Val)
}

func TestLowerFallsOffEndReturnsZero(t *testing.T) {
	prog := lowerSource(t, `int main(void) { int x = 1; }`)
	fn := prog.Functions[0]
	last := fn.Body[len(fn.Body)-1]
	require.IsType(t, &ReturnInst{}, last)
	require.Equal(t, Constant{N: 0}, last.(*ReturnInst).Val)
}

func TestLowerWhileHasDistinctLabelsAndClosure(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int i = 0;
			while (i < 10) {
				i = i + 1;
			}
			return i;
		}
	`)
	fn := prog.Functions[0]
	labelClosure(t, fn)
}

func TestLowerForLoopClosure(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int total = 0;
			for (int i = 0; i < 5; i = i + 1) {
				total = total + i;
			}
			return total;
		}
	`)
	fn := prog.Functions[0]
	labelClosure(t, fn)
}

func TestLowerBreakContinueTargetsCorrectLabels(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int i = 0;
			while (i < 10) {
				if (i == 5) {
					break;
				}
				i = i + 1;
				continue;
			}
			return i;
		}
	`)
	fn := prog.Functions[0]
	labelClosure(t, fn)
}

func TestLowerSwitchFallthroughAndClosure(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int x = 2;
			switch (x) {
				case 1:
					x = 10;
				case 2:
					x = 20;
					break;
				default:
					x = 30;
			}
			return x;
		}
	`)
	fn := prog.Functions[0]
	labelClosure(t, fn)

	var sawEqual bool
	for _, inst := range fn.Body {
		if b, ok := inst.(*BinaryInst); ok && b.Op == Equal {
			sawEqual = true
		}
	}
	require.True(t, sawEqual, "switch dispatch should compare the switched value against each case constant")
}

func TestLowerLogicalAndShortCircuitsToCopy(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int a = 1;
			int b = 0;
			return a && b;
		}
	`)
	fn := prog.Functions[0]
	labelClosure(t, fn)

	var sawJumpIfZero bool
	for _, inst := range fn.Body {
		if _, ok := inst.(*JumpIfZeroInst); ok {
			sawJumpIfZero = true
		}
	}
	require.True(t, sawJumpIfZero)
}

func TestLowerCallEvaluatesArgsIntoFreshTemps(t *testing.T) {
	prog := lowerSource(t, `
		int add(int a, int b) { return a + b; }
		int main(void) {
			return add(1, 2);
		}
	`)
	require.Len(t, prog.Functions, 2)
	main := prog.Functions[1]

	var call *CallInst
	for _, inst := range main.Body {
		if c, ok := inst.(*CallInst); ok {
			call = c
		}
	}
	require.NotNil(t, call)
	require.Equal(t, "add", call.Name)
	require.Len(t, call.Args, 2)
	for _, a := range call.Args {
		require.IsType(t, Var{}, a)
	}
}

func TestLowerTemporariesDoNotCollideWithVariableIDs(t *testing.T) {
	prog := lowerSource(t, `
		int main(void) {
			int x = 1;
			int y = 2;
			return x + y * 3;
		}
	`)
	fn := prog.Functions[0]

	varIDs := map[int]bool{}
	for _, inst := range fn.Body {
		if c, ok := inst.(*CopyInst); ok {
			if v, ok := c.Dst.(Var); ok {
				varIDs[v.ID] = true
			}
		}
	}
	// x and y keep their sema-assigned ids; the multiply's temporary
	// must land strictly above both.
	require.True(t, len(varIDs) >= 2)
	maxVarID := 0
	for id := range varIDs {
		if id > maxVarID {
			maxVarID = id
		}
	}
	for _, inst := range fn.Body {
		if b, ok := inst.(*BinaryInst); ok {
			require.Greater(t, b.Dst.(Var).ID, maxVarID)
		}
	}
}

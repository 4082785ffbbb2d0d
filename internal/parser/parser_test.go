package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallc-lang/smallc/internal/ast"
	"github.com/smallc-lang/smallc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	prog, err := Parse(toks, []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseMinimalFunction(t *testing.T) {
	prog := parse(t, `int main(void) { return 2; }`)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	require.NotNil(t, fn.Body)
	require.Empty(t, fn.Params)
	require.Len(t, fn.Body.Items, 1)

	ret, ok := fn.Body.Items[0].(*ast.ReturnStatement)
	require.True(t, ok)
	constant, ok := ret.Expr.(*ast.ConstantExpr)
	require.True(t, ok)
	assert.EqualValues(t, 2, constant.Value)
}

func TestParseForwardDeclaration(t *testing.T) {
	prog := parse(t, `int f(int a, int b); int main(void) { return 0; }`)
	require.Len(t, prog.Functions, 2)
	assert.Nil(t, prog.Functions[0].Body)
	require.Len(t, prog.Functions[0].Params, 2)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	prog := parse(t, `int main(void) { return 1 + 2 * 3; }`)
	ret := prog.Functions[0].Body.Items[0].(*ast.ReturnStatement)
	add, ok := ret.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, add.Op)

	_, ok = add.Left.(*ast.ConstantExpr)
	require.True(t, ok)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op)
}

func TestParseLeftAssociativity(t *testing.T) {
	// 1 - 2 - 3 should parse as (1 - 2) - 3, not 1 - (2 - 3).
	prog := parse(t, `int main(void) { return 1 - 2 - 3; }`)
	ret := prog.Functions[0].Body.Items[0].(*ast.ReturnStatement)
	outer := ret.Expr.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpSub, outer.Op)

	inner, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok, "left-associativity requires the nested op on the left")
	assert.Equal(t, ast.OpSub, inner.Op)

	_, ok = outer.Right.(*ast.ConstantExpr)
	require.True(t, ok)
}

func TestParseAssignmentRightAssociativity(t *testing.T) {
	prog := parse(t, `int main(void) { int a = 0; int b = 0; a = b = 1; return a; }`)
	exprStmt := prog.Functions[0].Body.Items[2].(*ast.ExprStatement)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	require.True(t, ok)

	_, ok = assign.Left.(*ast.IdentifierExpr)
	require.True(t, ok)

	inner, ok := assign.Right.(*ast.AssignExpr)
	require.True(t, ok, "right-associativity requires the nested assignment on the right")
	_, ok = inner.Left.(*ast.IdentifierExpr)
	require.True(t, ok)
}

func TestParseTernaryRightAssociativity(t *testing.T) {
	prog := parse(t, `int main(void) { return 1 ? 2 : 3 ? 4 : 5; }`)
	ret := prog.Functions[0].Body.Items[0].(*ast.ReturnStatement)
	outer, ok := ret.Expr.(*ast.ConditionalExpr)
	require.True(t, ok)

	inner, ok := outer.Else.(*ast.ConditionalExpr)
	require.True(t, ok, "ternary nests on the else-branch when right-associative")
	_, ok = inner.Cond.(*ast.ConstantExpr)
	require.True(t, ok)
}

func TestParseCompoundAssignment(t *testing.T) {
	prog := parse(t, `int main(void) { int a = 5; a += 3; return a; }`)
	exprStmt := prog.Functions[0].Body.Items[1].(*ast.ExprStatement)
	opAssign, ok := exprStmt.Expr.(*ast.OpAssignExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, opAssign.Op)
}

func TestParseCallWithArgs(t *testing.T) {
	prog := parse(t, `int f(int a, int b) { return a - b; } int main(void) { return f(10, 3); }`)
	ret := prog.Functions[1].Body.Items[0].(*ast.ReturnStatement)
	call, ok := ret.Expr.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestParseParenthesizedExpression(t *testing.T) {
	prog := parse(t, `int main(void) { return (1 + 2) * 3; }`)
	ret := prog.Functions[0].Body.Items[0].(*ast.ReturnStatement)
	mul, ok := ret.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op)

	paren, ok := mul.Left.(*ast.ParenExpr)
	require.True(t, ok)
	_, ok = paren.Inner.(*ast.BinaryExpr)
	require.True(t, ok)
}

func TestParsePrefixAndPostfixIncrement(t *testing.T) {
	prog := parse(t, `int main(void) { int a = 0; a++; ++a; return a; }`)
	post := prog.Functions[0].Body.Items[1].(*ast.ExprStatement).Expr.(*ast.UnaryExpr)
	assert.Equal(t, ast.UnaryIncPost, post.Op)

	pre := prog.Functions[0].Body.Items[2].(*ast.ExprStatement).Expr.(*ast.UnaryExpr)
	assert.Equal(t, ast.UnaryIncPre, pre.Op)
}

func TestParseForLoopWithDeclarationInit(t *testing.T) {
	prog := parse(t, `int main(void) { int s = 0; for (int i = 1; i <= 4; i += 1) s += i; return s; }`)
	forStmt := prog.Functions[0].Body.Items[1].(*ast.ForStatement)
	_, ok := forStmt.Init.(*ast.VariableDeclaration)
	require.True(t, ok)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestParseSwitchWithFallthroughAndDefault(t *testing.T) {
	prog := parse(t, `
		int main(void) {
			switch (1) {
				case 1:
				case 2:
					return 2;
				default:
					return 0;
			}
		}
	`)
	sw := prog.Functions[0].Body.Items[0].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 2)
	assert.Empty(t, sw.Cases[0].Body, "case 1 falls through with no statements of its own")
	assert.Len(t, sw.Cases[1].Body, 1)
	require.Len(t, sw.Default, 1)
}

func TestParseMissingReturnExpressionFails(t *testing.T) {
	toks, err := lexer.Lex([]byte(`int main(void) { return; }`))
	require.NoError(t, err)
	_, err = Parse(toks, []byte(`int main(void) { return; }`))
	require.Error(t, err)
}

func TestParseTrailingCommaInParamList(t *testing.T) {
	src := `int f(int a, ) { return a; }`
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	_, err = Parse(toks, []byte(src))
	require.Error(t, err)
	require.IsType(t, &TrailingCommaError{}, err)
}

func TestParseTooManyTokens(t *testing.T) {
	src := `int main(void) { return 0; } }`
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	_, err = Parse(toks, []byte(src))
	require.Error(t, err)
	require.IsType(t, &TooManyTokensError{}, err)
}

func TestParseInvalidFactor(t *testing.T) {
	src := `int main(void) { return *1; }`
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	_, err = Parse(toks, []byte(src))
	require.Error(t, err)
	require.IsType(t, &InvalidFactorError{}, err)
}

func TestParseNestedFunctionDeclarationIsGrammatical(t *testing.T) {
	// Grammatically legal (rejected later by semantic analysis, see
	// internal/sema.NestedFunctionDeclarationError).
	prog := parse(t, `int main(void) { int f(int x); return 0; }`)
	decl, ok := prog.Functions[0].Body.Items[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Nil(t, decl.Body)
}

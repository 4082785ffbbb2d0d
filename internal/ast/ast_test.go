package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanTextAndEnd(t *testing.T) {
	src := []byte("int foo = 1;")
	sp := Span{Start: 4, Len: 3}
	assert.Equal(t, 7, sp.End())
	assert.Equal(t, "foo", sp.Text(src))
}

func TestIsLvalueIdentifier(t *testing.T) {
	assert.True(t, IsLvalue(&IdentifierExpr{Name: Span{Start: 0, Len: 1}}))
}

func TestIsLvalueParenthesizedIdentifier(t *testing.T) {
	expr := &ParenExpr{Inner: &IdentifierExpr{Name: Span{Start: 0, Len: 1}}}
	assert.True(t, IsLvalue(expr))
}

func TestIsLvalueNestedParens(t *testing.T) {
	expr := &ParenExpr{Inner: &ParenExpr{Inner: &IdentifierExpr{}}}
	assert.True(t, IsLvalue(expr))
}

func TestIsLvaluePrefixIncrementOnIdentifier(t *testing.T) {
	expr := &UnaryExpr{Op: UnaryIncPre, Operand: &IdentifierExpr{}}
	assert.True(t, IsLvalue(expr))
}

func TestIsLvaluePostfixDecrementOnIdentifier(t *testing.T) {
	expr := &UnaryExpr{Op: UnaryDecPost, Operand: &IdentifierExpr{}}
	assert.True(t, IsLvalue(expr))
}

func TestIsLvalueRejectsConstant(t *testing.T) {
	assert.False(t, IsLvalue(&ConstantExpr{Value: 1}))
}

func TestIsLvalueRejectsBinaryExpr(t *testing.T) {
	expr := &BinaryExpr{Op: OpAdd, Left: &ConstantExpr{Value: 1}, Right: &ConstantExpr{Value: 2}}
	assert.False(t, IsLvalue(expr))
}

func TestIsLvalueRejectsNegationOfIdentifier(t *testing.T) {
	// -x is not an lvalue: only increment/decrement unary ops qualify.
	expr := &UnaryExpr{Op: UnaryNegate, Operand: &IdentifierExpr{}}
	assert.False(t, IsLvalue(expr))
}

func TestIsLvalueRejectsIncrementOfNonLvalue(t *testing.T) {
	expr := &UnaryExpr{Op: UnaryIncPre, Operand: &ConstantExpr{Value: 1}}
	assert.False(t, IsLvalue(expr))
}

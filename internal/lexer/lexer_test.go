package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallc-lang/smallc/internal/token"
)

func TestLexOperators(t *testing.T) {
	src := []byte("<<= >>= == != <= >= << >> && || ++ -- += -= *= /= %= &= |= ^= < > = + - * / % ~ ! & | ^ ( ) { } ; , ? :")

	toks, err := Lex(src)
	require.NoError(t, err)

	want := []token.Kind{
		token.ShlAssign, token.ShrAssign,
		token.EqualEqual, token.NotEqual, token.LessEqual, token.GreaterEqual,
		token.Shl, token.Shr, token.AmpAmp, token.PipePipe,
		token.PlusPlus, token.MinusMinus,
		token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign,
		token.AmpAssign, token.PipeAssign, token.CaretAssign,
		token.Less, token.Greater, token.Assign,
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Tilde, token.Bang, token.Amp, token.Pipe, token.Caret,
		token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.Semicolon, token.Comma, token.Question, token.Colon,
	}

	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	src := []byte("int void return if else do while for break continue switch case default foo x1 _bar")

	toks, err := Lex(src)
	require.NoError(t, err)

	want := []token.Kind{
		token.KwInt, token.KwVoid, token.KwReturn, token.KwIf, token.KwElse,
		token.KwDo, token.KwWhile, token.KwFor, token.KwBreak, token.KwContinue,
		token.KwSwitch, token.KwCase, token.KwDefault,
		token.Identifier, token.Identifier, token.Identifier,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equalf(t, k, toks[i].Kind, "token %d", i)
	}

	last := toks[len(toks)-1]
	assert.Equal(t, "_bar", last.Text(src))
}

func TestLexConstants(t *testing.T) {
	src := []byte("0 42 1000")
	toks, err := Lex(src)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.Constant, tok.Kind)
	}
	assert.Equal(t, "1000", toks[2].Text(src))
}

func TestLexEmptyAndWhitespaceOnly(t *testing.T) {
	for _, src := range [][]byte{[]byte(""), []byte("   \t\n\r  ")} {
		toks, err := Lex(src)
		require.NoError(t, err)
		assert.Empty(t, toks)
	}
}

func TestLexMalformedConstant(t *testing.T) {
	_, err := Lex([]byte("123abc"))
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 0, lexErr.Offset)
}

func TestLexInvalidByte(t *testing.T) {
	_, err := Lex([]byte("int x = 1 $ 2;"))
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 10, lexErr.Offset)
}

func TestLexSpansAreValid(t *testing.T) {
	src := []byte("int main ( void ) { return 0 ; }")
	toks, err := Lex(src)
	require.NoError(t, err)
	for _, tok := range toks {
		assert.LessOrEqual(t, tok.Start+tok.Len, len(src))
	}
}

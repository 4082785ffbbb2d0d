package parser

import (
	"fmt"

	"github.com/smallc-lang/smallc/internal/token"
)

// NotEnoughTokensError is returned when the token stream ends before a
// required construct is complete.
type NotEnoughTokensError struct {
	Offset int
}

func (e *NotEnoughTokensError) Error() string {
	return fmt.Sprintf("unexpected end of input at offset %d", e.Offset)
}

// InvalidTokenError is returned when the token at the parser's cursor
// does not match what the current grammar rule expects.
type InvalidTokenError struct {
	Got      token.Token
	Expected token.Kind
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token at offset %d: expected %s, got %s", e.Got.Start, e.Expected, e.Got.Kind)
}

// TooManyTokensError is returned when tokens remain after the program's
// final top-level declaration.
type TooManyTokensError struct {
	Offset int
}

func (e *TooManyTokensError) Error() string {
	return fmt.Sprintf("unexpected trailing tokens at offset %d", e.Offset)
}

// InvalidFactorError is returned when no factor-production matches the
// token at the cursor.
type InvalidFactorError struct {
	Got token.Token
}

func (e *InvalidFactorError) Error() string {
	return fmt.Sprintf("invalid factor at offset %d: unexpected %s", e.Got.Start, e.Got.Kind)
}

// TrailingCommaError is returned for a trailing comma in a parameter
// list, e.g. "int f(int a, )".
type TrailingCommaError struct {
	Offset int
}

func (e *TrailingCommaError) Error() string {
	return fmt.Sprintf("trailing comma in parameter list at offset %d", e.Offset)
}

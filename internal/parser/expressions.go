package parser

import (
	"strconv"

	"github.com/smallc-lang/smallc/internal/ast"
	"github.com/smallc-lang/smallc/internal/token"
)

// precedence gives the binding power of each binary/assignment
// operator token, per spec.md's precedence table. Larger binds
// tighter. Tokens absent here are not binary operators.
func precedence(k token.Kind) (int, bool) {
	switch k {
	case token.Star, token.Slash, token.Percent:
		return 50, true
	case token.Plus, token.Minus:
		return 45, true
	case token.Shl, token.Shr:
		return 37, true
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		return 35, true
	case token.EqualEqual, token.NotEqual:
		return 30, true
	case token.Amp:
		return 20, true
	case token.Caret:
		return 17, true
	case token.Pipe:
		return 15, true
	case token.AmpAmp:
		return 10, true
	case token.PipePipe:
		return 5, true
	case token.Question:
		return 3, true
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign,
		token.SlashAssign, token.PercentAssign, token.AmpAssign, token.PipeAssign,
		token.CaretAssign, token.ShlAssign, token.ShrAssign:
		return 1, true
	}
	return 0, false
}

// isRightAssoc reports whether k's recursion should stay at the same
// precedence (right-associative) rather than climb to precedence+1.
func isRightAssoc(k token.Kind) bool {
	switch k {
	case token.Question, token.Assign, token.PlusAssign, token.MinusAssign,
		token.StarAssign, token.SlashAssign, token.PercentAssign, token.AmpAssign,
		token.PipeAssign, token.CaretAssign, token.ShlAssign, token.ShrAssign:
		return true
	}
	return false
}

func binOpFor(k token.Kind) ast.BinOp {
	switch k {
	case token.Plus, token.PlusAssign:
		return ast.OpAdd
	case token.Minus, token.MinusAssign:
		return ast.OpSub
	case token.Star, token.StarAssign:
		return ast.OpMul
	case token.Slash, token.SlashAssign:
		return ast.OpDiv
	case token.Percent, token.PercentAssign:
		return ast.OpMod
	case token.Shl, token.ShlAssign:
		return ast.OpShl
	case token.Shr, token.ShrAssign:
		return ast.OpShr
	case token.Less:
		return ast.OpLess
	case token.LessEqual:
		return ast.OpLessEqual
	case token.Greater:
		return ast.OpGreater
	case token.GreaterEqual:
		return ast.OpGreaterEqual
	case token.EqualEqual:
		return ast.OpEqual
	case token.NotEqual:
		return ast.OpNotEqual
	case token.Amp, token.AmpAssign:
		return ast.OpBitAnd
	case token.Caret, token.CaretAssign:
		return ast.OpBitXor
	case token.Pipe, token.PipeAssign:
		return ast.OpBitOr
	case token.AmpAmp:
		return ast.OpLogAnd
	case token.PipePipe:
		return ast.OpLogOr
	}
	panic("parser: binOpFor called on non-binary token kind")
}

func isCompoundAssign(k token.Kind) bool {
	switch k {
	case token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign,
		token.ShlAssign, token.ShrAssign:
		return true
	}
	return false
}

// parseExpression implements precedence climbing: <exp> ::= <factor> |
// <exp> <binop> <exp> | <exp> "?" <exp> ":" <exp>. minPrec is the
// minimum precedence the loop will keep consuming operators at.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		prec, isOp := precedence(tok.Kind)
		if !isOp || prec < minPrec {
			break
		}

		switch tok.Kind {
		case token.Question:
			p.pos++
			then, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			elseExpr, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			left = &ast.ConditionalExpr{Cond: left, Then: then, Else: elseExpr}

		case token.Assign:
			p.pos++
			right, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			left = &ast.AssignExpr{Left: left, Right: right}

		default:
			if isCompoundAssign(tok.Kind) {
				p.pos++
				right, err := p.parseExpression(prec)
				if err != nil {
					return nil, err
				}
				left = &ast.OpAssignExpr{Op: binOpFor(tok.Kind), Left: left, Right: right}
				continue
			}

			nextMin := prec + 1
			if isRightAssoc(tok.Kind) {
				nextMin = prec
			}
			p.pos++
			right, err := p.parseExpression(nextMin)
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Op: binOpFor(tok.Kind), Left: left, Right: right}
		}
	}

	return left, nil
}

// unaryOpFor maps a prefix-operator token to its UnaryOp.
func unaryOpFor(k token.Kind) ast.UnaryOp {
	switch k {
	case token.Minus:
		return ast.UnaryNegate
	case token.Tilde:
		return ast.UnaryComplement
	case token.Bang:
		return ast.UnaryNot
	case token.PlusPlus:
		return ast.UnaryIncPre
	case token.MinusMinus:
		return ast.UnaryDecPre
	}
	panic("parser: unaryOpFor called on non-unary token kind")
}

func isPrefixUnary(k token.Kind) bool {
	switch k {
	case token.Minus, token.Tilde, token.Bang, token.PlusPlus, token.MinusMinus:
		return true
	}
	return false
}

// parseFactor implements:
//
//	<factor> ::= <int> | <id> [ "(" [ <arg-list> ] ")" ] | "(" <exp> ")"
//	           | <unop> <factor> | <factor> ("++"|"--")
//
// A leading "(" is tried first as a parenthesized expression; if that
// inner parse fails the cursor is rewound so a caller further up could
// in principle retry a different production (the grammar here has no
// such caller, but the speculative-parse shape is kept to mirror the
// spec's disambiguation strategy faithfully).
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &NotEnoughTokensError{Offset: p.offsetHere()}
	}

	var base ast.Expression
	var err error

	switch {
	case tok.Kind == token.Constant:
		p.pos++
		val, perr := parseIntLiteral(tok, p.src)
		if perr != nil {
			return nil, perr
		}
		base = &ast.ConstantExpr{Span: ast.Span{Start: tok.Start, Len: tok.Len}, Value: val}

	case tok.Kind == token.Identifier:
		p.pos++
		if p.check(token.LParen) {
			base, err = p.parseCallArgs(tok)
			if err != nil {
				return nil, err
			}
		} else {
			base = &ast.IdentifierExpr{Name: ast.Span{Start: tok.Start, Len: tok.Len}}
		}

	case tok.Kind == token.LParen:
		base, err = p.parseParenthesized()
		if err != nil {
			return nil, err
		}

	case isPrefixUnary(tok.Kind):
		p.pos++
		operand, perr := p.parseFactor()
		if perr != nil {
			return nil, perr
		}
		base = &ast.UnaryExpr{Op: unaryOpFor(tok.Kind), Operand: operand}

	default:
		return nil, &InvalidFactorError{Got: tok}
	}

	// Postfix ++ / -- bind to the factor just parsed.
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		switch t.Kind {
		case token.PlusPlus:
			p.pos++
			base = &ast.UnaryExpr{Op: ast.UnaryIncPost, Operand: base}
			continue
		case token.MinusMinus:
			p.pos++
			base = &ast.UnaryExpr{Op: ast.UnaryDecPost, Operand: base}
			continue
		}
		break
	}

	return base, nil
}

// parseParenthesized speculatively parses "(" <exp> ")"; on failure it
// rewinds the cursor entirely.
func (p *Parser) parseParenthesized() (ast.Expression, error) {
	mark := p.mark()
	p.pos++ // "("
	inner, err := p.parseExpression(0)
	if err != nil {
		p.reset(mark)
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		p.reset(mark)
		return nil, err
	}
	return &ast.ParenExpr{Inner: inner}, nil
}

func (p *Parser) parseCallArgs(name token.Token) (ast.Expression, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	call := &ast.CallExpr{Name: ast.Span{Start: name.Start, Len: name.Len}}
	if !p.check(token.RParen) {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.check(token.Comma) {
				break
			}
			p.pos++
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return call, nil
}

func parseIntLiteral(tok token.Token, src []byte) (int64, error) {
	v, err := strconv.ParseInt(tok.Text(src), 10, 64)
	if err != nil {
		return 0, &InvalidTokenError{Got: tok, Expected: token.Constant}
	}
	return v, nil
}

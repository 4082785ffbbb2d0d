// Package parser builds a typed AST from a token stream via recursive
// descent for statements/declarations and precedence-climbing for
// expressions.
package parser

import (
	"github.com/smallc-lang/smallc/internal/ast"
	"github.com/smallc-lang/smallc/internal/token"
)

// Parser holds cursor state over a fixed token slice and the source
// buffer those tokens span into (read only to parse integer-literal
// values; identifier text stays unread until semantic analysis needs it).
type Parser struct {
	toks []token.Token
	src  []byte
	pos  int
}

// New creates a Parser over toks, sourced from src.
func New(toks []token.Token, src []byte) *Parser {
	return &Parser{toks: toks, src: src}
}

// Parse runs the full <program> grammar rule and reports
// TooManyTokensError if tokens remain unconsumed.
func Parse(toks []token.Token, src []byte) (*ast.Program, error) {
	p := New(toks, src)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, &TooManyTokensError{Offset: p.toks[p.pos].Start}
	}
	return prog, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *Parser) offsetHere() int {
	if p.atEnd() {
		if len(p.toks) == 0 {
			return 0
		}
		last := p.toks[len(p.toks)-1]
		return last.End()
	}
	return p.toks[p.pos].Start
}

func (p *Parser) peek() (token.Token, bool) {
	if p.atEnd() {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

// peekAt looks ahead `offset` tokens from the cursor without consuming.
func (p *Parser) peekAt(offset int) (token.Token, bool) {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[idx], true
}

func (p *Parser) advance() (token.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return token.Token{}, &NotEnoughTokensError{Offset: p.offsetHere()}
	}
	p.pos++
	return tok, nil
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return token.Token{}, &NotEnoughTokensError{Offset: p.offsetHere()}
	}
	if tok.Kind != k {
		return token.Token{}, &InvalidTokenError{Got: tok, Expected: k}
	}
	p.pos++
	return tok, nil
}

func (p *Parser) check(k token.Kind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == k
}

// mark/reset implement the speculative backtracking the grammar needs
// to disambiguate a parenthesized expression from other uses of '('.
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(m int)    { p.pos = m }

// ---- Program & declarations ----------------------------------------

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.check(token.KwInt) {
		fn, err := p.parseFunctionDeclaration()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func (p *Parser) parseFunctionDeclaration() (*ast.FunctionDeclaration, error) {
	if _, err := p.expect(token.KwInt); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	fn := &ast.FunctionDeclaration{Name: ast.Span{Start: name.Start, Len: name.Len}, Params: params}

	if p.check(token.Semicolon) {
		p.pos++
		return fn, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseParamList() ([]ast.Span, error) {
	if p.check(token.KwVoid) {
		p.pos++
		return nil, nil
	}
	if p.check(token.RParen) {
		return nil, nil
	}

	var params []ast.Span
	for {
		if _, err := p.expect(token.KwInt); err != nil {
			return nil, err
		}
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Span{Start: name.Start, Len: name.Len})

		if !p.check(token.Comma) {
			break
		}
		p.pos++
		if p.check(token.RParen) {
			return nil, &TrailingCommaError{Offset: p.offsetHere()}
		}
	}
	return params, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.check(token.RBrace) {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, item)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// parseBlockItem parses a <declaration> when the item starts with
// "int" and a <statement> otherwise. parseDeclaration then looks at the
// token two positions past "int": a "(" means a nested function
// declaration, anything else is parsed as a variable declaration.
func (p *Parser) parseBlockItem() (ast.BlockItem, error) {
	if p.check(token.KwInt) {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		return decl, nil
	}
	return p.parseStatement()
}

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	// toks[pos] == "int", toks[pos+1] == identifier (or a parse error
	// will surface it); toks[pos+2] disambiguates.
	if next, ok := p.peekAt(2); ok && next.Kind == token.LParen {
		return p.parseFunctionDeclaration()
	}
	return p.parseVariableDeclaration()
}

func (p *Parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	if _, err := p.expect(token.KwInt); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Name: ast.Span{Start: name.Start, Len: name.Len}}
	if p.check(token.Assign) {
		p.pos++
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		decl.Initializer = expr
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

// ---- Statements -------------------------------------------------------

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &NotEnoughTokensError{Offset: p.offsetHere()}
	}

	switch tok.Kind {
	case token.KwReturn:
		p.pos++
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Expr: expr}, nil

	case token.Semicolon:
		p.pos++
		return &ast.NullStatement{}, nil

	case token.KwIf:
		return p.parseIf()

	case token.LBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.CompoundStatement{Block: block}, nil

	case token.KwBreak:
		p.pos++
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{}, nil

	case token.KwContinue:
		p.pos++
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{}, nil

	case token.KwWhile:
		return p.parseWhile()

	case token.KwDo:
		return p.parseDoWhile()

	case token.KwFor:
		return p.parseFor()

	case token.KwSwitch:
		return p.parseSwitch()

	default:
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ExprStatement{Expr: expr}, nil
	}
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.pos++ // "if"
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Cond: cond, Then: then}
	if p.check(token.KwElse) {
		p.pos++
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	p.pos++ // "while"
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile() (ast.Statement, error) {
	p.pos++ // "do"
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Body: body, Cond: cond}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	p.pos++ // "for"
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	init, err := p.parseForInit()
	if err != nil {
		return nil, err
	}

	var cond ast.Expression
	if !p.check(token.Semicolon) {
		cond, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	var post ast.Expression
	if !p.check(token.RParen) {
		post, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *Parser) parseForInit() (ast.ForInit, error) {
	if p.check(token.KwInt) {
		return p.parseVariableDeclaration()
	}
	if p.check(token.Semicolon) {
		p.pos++
		return nil, nil
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExprForInit{Expr: expr}, nil
}

func (p *Parser) parseSwitch() (ast.Statement, error) {
	p.pos++ // "switch"
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	stmt := &ast.SwitchStatement{Value: value}
	sawDefault := false
	for p.check(token.KwCase) || p.check(token.KwDefault) {
		if p.check(token.KwCase) {
			p.pos++
			constTok, err := p.expect(token.Constant)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			val, err := parseIntLiteral(constTok, p.src)
			if err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, ast.SwitchCase{Value: val, Body: body})
		} else {
			if sawDefault {
				return nil, &InvalidTokenError{Got: mustPeek(p), Expected: token.RBrace}
			}
			sawDefault = true
			p.pos++
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Default = body
		}
	}

	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCaseBody consumes statements until the next "case", "default",
// or the switch's closing brace, preserving fall-through by keeping
// them as a flat statement list rather than a nested block.
func (p *Parser) parseCaseBody() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.check(token.KwCase) && !p.check(token.KwDefault) && !p.check(token.RBrace) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func mustPeek(p *Parser) token.Token {
	tok, _ := p.peek()
	return tok
}

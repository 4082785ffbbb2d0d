// Package lexer turns the driver's preprocessed source buffer into a
// flat token stream.
//
// The scan is a single left-to-right pass with no backtracking: each
// byte is consumed by exactly one of (a) whitespace skipping, (b) a
// greedy punctuation match, (c) a numeric-constant scan, or (d) an
// identifier/keyword scan. Identifier and constant tokens carry byte
// spans into the caller-owned buffer rather than copied text.
package lexer

import (
	"fmt"

	"github.com/smallc-lang/smallc/internal/token"
)

// Error reports that no token could start at Offset.
type Error struct {
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid token at offset %d", e.Offset)
}

// punct3, punct2, punct1 are the fixed decision tables the spec calls
// for: greedy length-3, then length-2, then length-1 matches. Checked
// in that order so "<<=" is preferred over "<<" over "<".
var punct3 = map[string]token.Kind{
	"<<=": token.ShlAssign,
	">>=": token.ShrAssign,
}

var punct2 = map[string]token.Kind{
	"==": token.EqualEqual,
	"!=": token.NotEqual,
	"<=": token.LessEqual,
	">=": token.GreaterEqual,
	"<<": token.Shl,
	">>": token.Shr,
	"&&": token.AmpAmp,
	"||": token.PipePipe,
	"++": token.PlusPlus,
	"--": token.MinusMinus,
	"+=": token.PlusAssign,
	"-=": token.MinusAssign,
	"*=": token.StarAssign,
	"/=": token.SlashAssign,
	"%=": token.PercentAssign,
	"&=": token.AmpAssign,
	"|=": token.PipeAssign,
	"^=": token.CaretAssign,
}

var punct1 = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	';': token.Semicolon,
	',': token.Comma,
	'?': token.Question,
	':': token.Colon,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'~': token.Tilde,
	'!': token.Bang,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'<': token.Less,
	'>': token.Greater,
	'=': token.Assign,
}

// Lex scans src in full and returns its token stream, or the first
// lexical error encountered. An empty or all-whitespace buffer yields
// an empty, non-nil slice and a nil error.
func Lex(src []byte) ([]token.Token, error) {
	toks := []token.Token{}
	p := 0
	n := len(src)

	for p < n {
		c := src[p]

		if isSpace(c) {
			p++
			continue
		}

		if p+3 <= n {
			if k, ok := punct3[string(src[p:p+3])]; ok {
				toks = append(toks, token.Token{Kind: k, Start: p, Len: 3})
				p += 3
				continue
			}
		}
		if p+2 <= n {
			if k, ok := punct2[string(src[p:p+2])]; ok {
				toks = append(toks, token.Token{Kind: k, Start: p, Len: 2})
				p += 2
				continue
			}
		}
		if k, ok := punct1[c]; ok {
			toks = append(toks, token.Token{Kind: k, Start: p, Len: 1})
			p++
			continue
		}

		if isDigit(c) {
			start := p
			for p < n && isDigit(src[p]) {
				p++
			}
			if p < n && (isAlpha(src[p]) || src[p] == '_') {
				return nil, &Error{Offset: start}
			}
			toks = append(toks, token.Token{Kind: token.Constant, Start: start, Len: p - start})
			continue
		}

		if isAlpha(c) || c == '_' {
			start := p
			for p < n && (isAlnum(src[p]) || src[p] == '_') {
				p++
			}
			text := string(src[start:p])
			if kw, ok := token.LookupKeyword(text); ok {
				toks = append(toks, token.Token{Kind: kw, Start: start, Len: p - start})
			} else {
				toks = append(toks, token.Token{Kind: token.Identifier, Start: start, Len: p - start})
			}
			continue
		}

		return nil, &Error{Offset: p}
	}

	return toks, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

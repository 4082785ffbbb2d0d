// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
//
// Tokens never copy identifier or constant text out of the source
// buffer: every token carries a byte-offset span, and the owner of the
// buffer (the driver) keeps it alive for the whole pipeline.
package token

// Kind enumerates every distinct lexical category the lexer can
// produce.
type Kind int

const (
	// Illegal marks the zero value; a well-formed token never carries it.
	Illegal Kind = iota

	Identifier
	Constant

	// Keywords.
	KwInt
	KwVoid
	KwReturn
	KwIf
	KwElse
	KwDo
	KwWhile
	KwFor
	KwBreak
	KwContinue
	KwSwitch
	KwCase
	KwDefault

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	Semicolon
	Comma
	Question
	Colon

	Plus
	Minus
	Star
	Slash
	Percent
	Tilde
	Bang
	Amp
	Pipe
	Caret
	Shl
	Shr

	Less
	LessEqual
	Greater
	GreaterEqual
	EqualEqual
	NotEqual

	AmpAmp
	PipePipe

	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign

	PlusPlus
	MinusMinus
)

// keywords maps recognized keyword spellings to their Kind. Lookup is
// skipped by the lexer for identifiers of length 1 or >8, since no
// keyword has such a length.
var keywords = map[string]Kind{
	"int":      KwInt,
	"void":     KwVoid,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"do":       KwDo,
	"while":    KwWhile,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
}

// LookupKeyword returns the keyword Kind for ident, and false if ident
// is not a recognized keyword (or is an identifier-only length).
func LookupKeyword(ident string) (Kind, bool) {
	if len(ident) <= 1 || len(ident) > 8 {
		return Illegal, false
	}
	k, ok := keywords[ident]
	return k, ok
}

// Token is a single lexical unit: a kind plus a byte span into the
// driver-owned source buffer. Identifier and Constant tokens carry no
// text of their own — callers slice the source buffer with Start/Len.
type Token struct {
	Kind  Kind
	Start int
	Len   int
}

// End returns the exclusive end offset of the token's span.
func (t Token) End() int { return t.Start + t.Len }

// Text returns the token's source text by slicing src.
func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End()])
}

// String gives a short human-readable name for diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var kindNames = map[Kind]string{
	Illegal:       "illegal",
	Identifier:    "identifier",
	Constant:      "constant",
	KwInt:         "int",
	KwVoid:        "void",
	KwReturn:      "return",
	KwIf:          "if",
	KwElse:        "else",
	KwDo:          "do",
	KwWhile:       "while",
	KwFor:         "for",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwSwitch:      "switch",
	KwCase:        "case",
	KwDefault:     "default",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	Semicolon:     ";",
	Comma:         ",",
	Question:      "?",
	Colon:         ":",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Tilde:         "~",
	Bang:          "!",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Shl:           "<<",
	Shr:           ">>",
	Less:          "<",
	LessEqual:     "<=",
	Greater:       ">",
	GreaterEqual:  ">=",
	EqualEqual:    "==",
	NotEqual:      "!=",
	AmpAmp:        "&&",
	PipePipe:      "||",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	PlusPlus:      "++",
	MinusMinus:    "--",
}

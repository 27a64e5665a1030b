package lang

import (
	"maps"
	"slices"
	"unicode"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals.
	TokenInt
	TokenLong
	TokenString
	TokenIdentifier

	// Keywords.
	TokenLet
	TokenConst
	TokenFunc
	TokenIf
	TokenElse
	TokenReturn

	// Operators.
	TokenBinaryOperator
	TokenUnaryOperator
	TokenLogicalOperator
	TokenEquals

	// Punctuation.
	TokenComma
	TokenDot
	TokenColon
	TokenSemicolon
	TokenOpenParen
	TokenCloseParen
	TokenOpenBrace
	TokenCloseBrace
	TokenOpenBracket
	TokenCloseBracket
)

var tokenKindName = [...]string{
	TokenEOF:             "EOF",
	TokenInt:             "Int",
	TokenLong:            "Long",
	TokenString:          "String",
	TokenIdentifier:      "Identifier",
	TokenLet:             "Let",
	TokenConst:           "Const",
	TokenFunc:            "Func",
	TokenIf:              "If",
	TokenElse:            "Else",
	TokenReturn:          "Return",
	TokenBinaryOperator:  "BinaryOperator",
	TokenUnaryOperator:   "UnaryOperator",
	TokenLogicalOperator: "LogicalOperator",
	TokenEquals:          "Equals",
	TokenComma:           "Comma",
	TokenDot:             "Dot",
	TokenColon:           "Colon",
	TokenSemicolon:       "Semicolon",
	TokenOpenParen:       "OpenParen",
	TokenCloseParen:      "CloseParen",
	TokenOpenBrace:       "OpenBrace",
	TokenCloseBrace:      "CloseBrace",
	TokenOpenBracket:     "OpenBracket",
	TokenCloseBracket:    "CloseBracket",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindName) {
		return "TokenKind(?)"
	}

	return tokenKindName[k]
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]TokenKind{
	"let":    TokenLet,
	"const":  TokenConst,
	"func":   TokenFunc,
	"if":     TokenIf,
	"else":   TokenElse,
	"return": TokenReturn,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string { return slices.Sorted(maps.Keys(keywords)) }

// IsIdentifier reports whether s lexes as a single identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	_, reserved := keywords[s]

	return !reserved
}

// punctuation maps single-character tokens to their kinds.
var punctuation = map[rune]TokenKind{
	'(': TokenOpenParen,
	')': TokenCloseParen,
	'{': TokenOpenBrace,
	'}': TokenCloseBrace,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	';': TokenSemicolon,
	':': TokenColon,
	',': TokenComma,
	'.': TokenDot,
}

// Token is a single lexeme. String tokens hold their contents without the
// surrounding quotes.
type Token struct {
	Text string
	Kind TokenKind
	Pos  Position
}

// Is reports whether t has the given kind and, if text is non-empty, the
// given text.
func (t Token) Is(kind TokenKind, text ...string) bool {
	if t.Kind != kind {
		return false
	}

	if len(text) == 0 {
		return true
	}

	for _, s := range text {
		if t.Text == s {
			return true
		}
	}

	return false
}

// String returns a diagnostic representation of the token.
func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}

	return t.Kind.String() + "(" + t.Text + ")"
}

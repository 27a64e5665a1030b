package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"unicode"
)

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}

	return kinds
}

func textsOf(tokens []Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != TokenEOF {
			texts = append(texts, tok.Text)
		}
	}

	return texts
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "declaration",
			input: "let x = 1;",
			want: []TokenKind{
				TokenLet, TokenIdentifier, TokenEquals, TokenInt, TokenSemicolon,
				TokenEOF,
			},
		},
		{
			name:  "keywords",
			input: "let const func if else return",
			want: []TokenKind{
				TokenLet, TokenConst, TokenFunc, TokenIf, TokenElse, TokenReturn,
				TokenEOF,
			},
		},
		{
			name:  "punctuation",
			input: "(){}[];:,.",
			want: []TokenKind{
				TokenOpenParen, TokenCloseParen,
				TokenOpenBrace, TokenCloseBrace,
				TokenOpenBracket, TokenCloseBracket,
				TokenSemicolon, TokenColon, TokenComma, TokenDot,
				TokenEOF,
			},
		},
		{
			name:  "literal values are identifiers",
			input: "true false null",
			want:  []TokenKind{TokenIdentifier, TokenIdentifier, TokenIdentifier, TokenEOF},
		},
		{
			name:  "string",
			input: `"hello world"`,
			want:  []TokenKind{TokenString, TokenEOF},
		},
		{
			name:  "letters then digits split",
			input: "x1",
			want:  []TokenKind{TokenIdentifier, TokenInt, TokenEOF},
		},
		{
			name:  "bang alone is unary",
			input: "!x",
			want:  []TokenKind{TokenUnaryOperator, TokenIdentifier, TokenEOF},
		},
		{
			name:  "logical operators",
			input: "a && b || c",
			want: []TokenKind{
				TokenIdentifier, TokenLogicalOperator, TokenIdentifier,
				TokenLogicalOperator, TokenIdentifier, TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			if got := kindsOf(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("expected kinds %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTokenize_Operators(t *testing.T) {
	input := "== != <= >= && || + - * / % < > ! = += -="
	want := []string{
		"==", "!=", "<=", ">=", "&&", "||",
		"+", "-", "*", "/", "%", "<", ">", "!", "=", "+=", "-=",
	}

	tokens, err := Tokenize(t.Context(), input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if got := textsOf(tokens); !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}

	for _, tok := range tokens {
		switch tok.Text {
		case "!":
			if tok.Kind != TokenUnaryOperator {
				t.Errorf("expected ! to be UnaryOperator, got %v", tok.Kind)
			}
		case "=":
			if tok.Kind != TokenEquals {
				t.Errorf("expected = to be Equals, got %v", tok.Kind)
			}
		case "&&", "||":
			if tok.Kind != TokenLogicalOperator {
				t.Errorf("expected %s to be LogicalOperator, got %v", tok.Text, tok.Kind)
			}
		case "":
		default:
			if tok.Kind != TokenBinaryOperator {
				t.Errorf("expected %s to be BinaryOperator, got %v", tok.Text, tok.Kind)
			}
		}
	}
}

func TestTokenize_StringVerbatim(t *testing.T) {
	tokens, err := Tokenize(t.Context(), `"a\n  b"`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if tokens[0].Text != `a\n  b` {
		t.Errorf("expected verbatim contents, got %q", tokens[0].Text)
	}
}

func TestTokenize_ReconstructsInput(t *testing.T) {
	inputs := []string{
		"let x = 1;",
		"func f(a, b) {\n\treturn a + b;\n}",
		"if (x >= 10 && !done) { y = y * 2; } else { y = 0; }",
		"o.k[i](1)(2); {a, b: 3,}",
		"ÿλ = 42 % 5 != 3",
	}

	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n':
				return -1
			}

			return r
		}, s)
	}

	for _, input := range inputs {
		tokens, err := Tokenize(t.Context(), input)
		if err != nil {
			t.Fatalf("tokenize %q: %v", input, err)
		}

		if last := tokens[len(tokens)-1]; last.Kind != TokenEOF {
			t.Errorf("%q: expected trailing EOF, got %v", input, last)
		}

		if got, want := strings.Join(textsOf(tokens), ""), strip(input); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize(t.Context(), "let\n  x = \"s\";")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 6, Line: 2, Column: 3},
		{Offset: 8, Line: 2, Column: 5},
		{Offset: 10, Line: 2, Column: 7},
		{Offset: 13, Line: 2, Column: 10},
		{Offset: 14, Line: 2, Column: 11},
	}

	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%v): expected %+v, got %+v", i, tok, want[i], tok.Pos)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		pos   Position
	}{
		{"unknown char", "let x = @;", ErrUnrecognizedChar, Position{8, 1, 9}},
		{"lone ampersand", "a & b", ErrUnrecognizedChar, Position{2, 1, 3}},
		{"lone pipe", "a |b", ErrUnrecognizedChar, Position{2, 1, 3}},
		{"underscore", "_x", ErrUnrecognizedChar, Position{0, 1, 1}},
		{"unterminated string", "x = \"abc", ErrUnterminatedString, Position{4, 1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected error to be a lex failure: %v", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if pos, ok := e.Position(); !ok || pos != tt.pos {
				t.Errorf("expected position %+v, got %+v", tt.pos, pos)
			}
		})
	}
}

func TestTokenize_IdentifierLetters(t *testing.T) {
	tokens, err := Tokenize(t.Context(), "héllo")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if tokens[0].Kind != TokenIdentifier || tokens[0].Text != "héllo" {
		t.Errorf("expected identifier héllo, got %v", tokens[0])
	}

	for _, r := range tokens[0].Text {
		if !unicode.IsLetter(r) {
			t.Errorf("unexpected non-letter %q in identifier", r)
		}
	}
}

func TestKeywords(t *testing.T) {
	want := []string{"const", "else", "func", "if", "let", "return"}
	if got := Keywords(); !slices.Equal(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"x":         true,
		"strLen":    true,
		"Ωmega":     true,
		"":          false,
		"let":       false,
		"return":    false,
		"lets":      true,
		"a_b":       false,
		"x1":        false,
		"two words": false,
	}

	for s, want := range tests {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}

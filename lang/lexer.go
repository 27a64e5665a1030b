package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits src into tokens. The returned slice always ends with a
// [TokenEOF] token.
func Tokenize(ctx context.Context, src string, opts ...Option) ([]Token, error) {
	cfg := makeConfig(opts...)

	l := &lexer{input: src, line: 1, col: 1}

	tokens, err := l.run()
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("source_bytes", len(src)),
		slog.Int("token_count", len(tokens)))

	return tokens, nil
}

// lexer holds the scanner state.
type lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

func (l *lexer) run() ([]Token, error) {
	for {
		l.skipWhitespace()

		if l.eof() {
			break
		}

		if err := l.scan(); err != nil {
			return nil, err
		}
	}

	l.emit(TokenEOF, "", l.position())

	return l.tokens, nil
}

// scan consumes exactly one token.
func (l *lexer) scan() error {
	pos := l.position()
	r := l.peek()

	if kind, ok := punctuation[r]; ok {
		l.advance()
		l.emit(kind, string(r), pos)

		return nil
	}

	switch {
	case r == '&' || r == '|':
		l.advance()

		if l.peek() != r {
			return ErrUnrecognizedChar.WithPosition(pos).
				With(slog.String("char", string(r)))
		}

		l.advance()
		l.emit(TokenLogicalOperator, string([]rune{r, r}), pos)

	case r == '=':
		l.advance()

		if l.peek() == '=' {
			l.advance()
			l.emit(TokenBinaryOperator, "==", pos)
		} else {
			l.emit(TokenEquals, "=", pos)
		}

	case r == '!':
		l.advance()

		if l.peek() == '=' {
			l.advance()
			l.emit(TokenBinaryOperator, "!=", pos)
		} else {
			l.emit(TokenUnaryOperator, "!", pos)
		}

	case strings.ContainsRune("+-*/%<>", r):
		l.advance()

		op := string(r)
		if l.peek() == '=' {
			l.advance()

			op += "="
		}

		l.emit(TokenBinaryOperator, op, pos)

	case r == '"':
		return l.scanString(pos)

	case isDigit(r):
		l.emit(TokenInt, l.scanWhile(isDigit), pos)

	case unicode.IsLetter(r):
		word := l.scanWhile(unicode.IsLetter)
		if kind, ok := keywords[word]; ok {
			l.emit(kind, word, pos)
		} else {
			l.emit(TokenIdentifier, word, pos)
		}

	default:
		return ErrUnrecognizedChar.WithPosition(pos).
			With(slog.String("char", string(r)))
	}

	return nil
}

// scanString consumes a double-quoted literal. There are no escape sequences.
func (l *lexer) scanString(pos Position) error {
	l.advance() // opening quote

	start := l.pos

	for !l.eof() {
		if l.peek() == '"' {
			text := l.input[start:l.pos]

			l.advance() // closing quote
			l.emit(TokenString, text, pos)

			return nil
		}

		l.advance()
	}

	return ErrUnterminatedString.WithPosition(pos)
}

func (l *lexer) scanWhile(accept func(rune) bool) string {
	start := l.pos

	for !l.eof() && accept(l.peek()) {
		l.advance()
	}

	return l.input[start:l.pos]
}

func (l *lexer) skipWhitespace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) emit(kind TokenKind, text string, pos Position) {
	l.tokens = append(l.tokens, Token{Text: text, Kind: kind, Pos: pos})
}

// Helper methods

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune {
	if l.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	classes := []*Error{ErrLex, ErrParse, ErrScope, ErrCall, ErrArithmetic, ErrReadInput, ErrConversion}

	tests := []struct {
		err   *Error
		class *Error
	}{
		{ErrUnrecognizedChar, ErrLex},
		{ErrUnterminatedString, ErrLex},
		{ErrUnexpectedToken, ErrParse},
		{ErrIntegerRange, ErrParse},
		{ErrUnresolvedName, ErrScope},
		{ErrConstantAssignment, ErrScope},
		{ErrArityMismatch, ErrCall},
		{ErrCallDepth, ErrCall},
		{ErrDivisionByZero, ErrArithmetic},
		{ErrUnsupportedNative, ErrConversion},
	}

	for _, tt := range tests {
		derived := tt.err.With(slog.String("k", "v")).WithPosition(Position{Line: 2, Column: 3})

		if !errors.Is(derived, tt.err) {
			t.Errorf("%v: derived error does not match its sentinel", tt.err)
		}

		for _, class := range classes {
			if got, want := errors.Is(derived, class), class == tt.class; got != want {
				t.Errorf("%v: errors.Is(%v) = %t", tt.err, class, got)
			}
		}

		if errors.Is(tt.class, tt.err) {
			t.Errorf("class %v must not match kind %v", tt.class, tt.err)
		}
	}

	if errors.Is(ErrUnresolvedName, ErrConstantAssignment) {
		t.Errorf("sibling kinds must not match")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrParse, "parse failure"},
		{ErrDivisionByZero, "arithmetic fault: division by zero"},
		{
			ErrUnresolvedName.With(slog.String("name", "x")),
			`scope failure: unresolved name [name="x"]`,
		},
		{
			ErrUnexpectedToken.WithPosition(Position{Line: 1, Column: 5}),
			"parse failure: unexpected token at 1:5",
		},
		{
			ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.Int("n", 3)),
			`failed to read input [n="3"]: unexpected EOF`,
		},
		{WrapError(io.EOF), "EOF"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestError_Immutable(t *testing.T) {
	base := ErrCall.With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if got := base.Error(); got != `call failure [a="1"]` {
		t.Errorf("With modified its receiver: %q", got)
	}

	if _, ok := ErrCall.Position(); ok {
		t.Errorf("sentinel must not carry a position")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("outer: %w", ErrCall.Wrap(cause))

	if !errors.Is(err, cause) || !errors.Is(err, ErrCall) {
		t.Errorf("expected both cause and class to match: %v", err)
	}

	var le *Error
	if !errors.As(err, &le) {
		t.Fatal("expected *Error in chain")
	}

	if WrapError(err) != le {
		t.Errorf("WrapError must return the existing *Error")
	}
}

func TestError_Position(t *testing.T) {
	_, err := ParseString(t.Context(), "let x = 1;\nlet = 2;")

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error, got %T", err)
	}

	pos, ok := le.Position()
	if !ok {
		t.Fatal("expected position")
	}

	if pos.Line != 2 || pos.Column != 5 || pos.Offset != 15 {
		t.Errorf("unexpected position %+v", pos)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrArityMismatch.Wrap(io.EOF).
		WithPosition(Position{Line: 4, Column: 1}).
		With(slog.Int("expected", 2))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group, got %v", v.Kind())
	}

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":    "call failure: argument count mismatch",
		"position": "4:1",
		"cause":    "EOF",
		"expected": "2",
	}

	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s: expected %q, got %q", k, w, got[k])
		}
	}
}

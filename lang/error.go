package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Failure classes. Every error produced by this package satisfies
// [errors.Is] against exactly one of these.
var (
	ErrLex        = NewError("lex failure")
	ErrParse      = NewError("parse failure")
	ErrScope      = NewError("scope failure")
	ErrCall       = NewError("call failure")
	ErrArithmetic = NewError("arithmetic fault")
	ErrReadInput  = NewError("failed to read input")
	ErrConversion = NewError("value conversion failed")
)

// Predefined errors (sentinel values).
var (
	ErrUnrecognizedChar   = ErrLex.Kind("unrecognized character")
	ErrUnterminatedString = ErrLex.Kind("unterminated string literal")

	ErrUnexpectedToken   = ErrParse.Kind("unexpected token")
	ErrConstWithoutValue = ErrParse.Kind("constant declared without a value")
	ErrInvalidParameter  = ErrParse.Kind("function parameter is not an identifier")
	ErrReturnOutsideFunc = ErrParse.Kind("return outside of function body")
	ErrIntegerRange      = ErrParse.Kind("integer literal out of range")

	ErrDuplicateDeclaration = ErrScope.Kind("name already declared in scope")
	ErrUnresolvedName       = ErrScope.Kind("unresolved name")
	ErrConstantAssignment   = ErrScope.Kind("assignment to constant")

	ErrNotCallable       = ErrCall.Kind("value is not callable")
	ErrArityMismatch     = ErrCall.Kind("argument count mismatch")
	ErrInvalidAssignment = ErrCall.Kind("invalid assignment target")
	ErrCallDepth         = ErrCall.Kind("maximum call depth exceeded")

	ErrDivisionByZero  = ErrArithmetic.Kind("division by zero")
	ErrIntegerOverflow = ErrArithmetic.Kind("integer overflow")

	ErrUnsupportedNative = ErrConversion.Kind("unsupported native type")
)

// Position identifies a location in source text. Line and Column are
// 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel (via [Error.With], [Error.Wrap], or
// [Error.WithPosition]) still match that sentinel and its failure class with
// [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	pos   *Position

	kind  *Error // sentinel this error was derived from
	class *Error // parent sentinel, nil for failure classes
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// Kind returns a new sentinel belonging to the failure class of e.
func (e *Error) Kind(msg string) *Error {
	k := &Error{msg: e.msg + ": " + msg, class: e.kind}
	k.kind = k

	return k
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at <line:col> [k=v ...]: <err>", with each
// part omitted when unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at ")
		sb.WriteString(e.pos.String())
	}

	if len(e.attrs) > 0 {
		sb.WriteString(" [")

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(strconv.Quote(a.Value.String()))
		}

		sb.WriteByte(']')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or one of
// that sentinel's enclosing failure classes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for k := e.kind; k != nil; k = k.class {
		if k == t {
			return true
		}
	}

	return false
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

func (e *Error) clone() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs, // Share attrs
		pos:   e.pos,
		kind:  e.kind,
		class: e.class,
	}
}

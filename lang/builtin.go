package lang

import (
	"bufio"
	"errors"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Console is the pair of streams used by the console natives.
type Console struct {
	In  io.Reader
	Out io.Writer
}

// clearScreen homes the cursor and erases the display.
const clearScreen = "\033[H\033[2J"

// Builtins lists the names bound in every global scope, in declaration order.
func Builtins() []string {
	return slices.Clone(builtinNames)
}

var builtinNames = []string{
	"null", "true", "false",
	"time", "print", "println", "consoleRead", "consoleClear",
	"strLen", "strSetAtIndex", "strContains", "strRepeat",
}

// NewGlobalEnv returns a root scope holding the constants null, true, and
// false and the native library, all bound as constants.
func (in *Interpreter) NewGlobalEnv() *Env {
	env := NewEnv(nil)

	natives := map[string]NativeFunc{
		"time":          in.nativeTime,
		"print":         in.nativePrint(false),
		"println":       in.nativePrint(true),
		"consoleRead":   in.nativeConsoleRead,
		"consoleClear":  in.nativeConsoleClear,
		"strLen":        nativeStrLen,
		"strSetAtIndex": nativeStrSetAtIndex,
		"strContains":   nativeStrContains,
		"strRepeat":     nativeStrRepeat,
	}

	for _, name := range builtinNames {
		var v Value

		switch name {
		case "null":
			v = Null
		case "true":
			v = Boolean(true)
		case "false":
			v = Boolean(false)
		default:
			v = &NativeFunction{Name: name, Fn: natives[name]}
		}

		// A fresh root scope cannot hold duplicates.
		_ = env.Declare(name, v, true)
	}

	return env
}

func (in *Interpreter) nativeTime([]Value, *Env) (Value, error) {
	return Int64(time.Now().UnixNano()), nil
}

func (in *Interpreter) nativePrint(newline bool) NativeFunc {
	return func(args []Value, _ *Env) (Value, error) {
		part := make([]string, len(args))
		for i, arg := range args {
			part[i] = arg.String()
		}

		s := strings.Join(part, " ")
		if newline {
			s += "\n"
		}

		if _, err := io.WriteString(in.console.Out, s); err != nil {
			return nil, err
		}

		return Null, nil
	}
}

func (in *Interpreter) nativeConsoleRead([]Value, *Env) (Value, error) {
	if in.input == nil {
		in.input = bufio.NewReader(in.console.In)
	}

	line, err := in.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrReadInput.Wrap(err)
	}

	return String(strings.TrimRight(line, "\r\n")), nil
}

func (in *Interpreter) nativeConsoleClear([]Value, *Env) (Value, error) {
	if _, err := io.WriteString(in.console.Out, clearScreen); err != nil {
		return nil, err
	}

	return Null, nil
}

func nativeStrLen(args []Value, _ *Env) (Value, error) {
	var n int

	for _, arg := range args {
		s, ok := arg.(String)
		if !ok {
			return Null, nil
		}

		n += utf8.RuneCountInString(string(s))
	}

	return Int(n), nil
}

func nativeStrSetAtIndex(args []Value, _ *Env) (Value, error) {
	if len(args) != 3 {
		return Null, nil
	}

	s, sok := args[0].(String)
	i, iok := args[1].(Int)
	r, rok := args[2].(String)

	if !sok || !iok || !rok {
		return Null, nil
	}

	runes := []rune(string(s))
	if i < 0 || int(i) >= len(runes) {
		return Null, nil
	}

	return String(string(runes[:i]) + string(r) + string(runes[i+1:])), nil
}

func nativeStrContains(args []Value, _ *Env) (Value, error) {
	if len(args) != 2 {
		return Null, nil
	}

	s, sok := args[0].(String)
	sub, subok := args[1].(String)

	if !sok || !subok {
		return Null, nil
	}

	return Boolean(strings.Contains(string(s), string(sub))), nil
}

func nativeStrRepeat(args []Value, _ *Env) (Value, error) {
	if len(args) != 2 {
		return Null, nil
	}

	s, sok := args[0].(String)
	n, nok := args[1].(Int)

	if !sok || !nok {
		return Null, nil
	}

	if n <= 0 {
		return s, nil
	}

	return String(strings.Repeat(string(s), int(n))), nil
}

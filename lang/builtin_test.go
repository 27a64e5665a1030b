package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBuiltins_Bound(t *testing.T) {
	env := NewInterpreter().NewGlobalEnv()

	for _, name := range Builtins() {
		v, ok := env.Lookup(name)
		if !ok {
			t.Errorf("expected %s to be bound", name)

			continue
		}

		if !env.IsConstant(name) {
			t.Errorf("expected %s to be constant", name)
		}

		switch name {
		case "null":
			if v != Null {
				t.Errorf("expected null to be Null, got %v", v)
			}
		case "true", "false":
			if v.Type() != TypeBoolean || v.String() != name {
				t.Errorf("expected %s to be Boolean %s, got %v", name, name, v)
			}
		default:
			if v.Type() != TypeNativeFunction {
				t.Errorf("expected %s to be a native function, got %v", name, v.Type())
			}
		}
	}

	if env.Parent() != nil {
		t.Errorf("expected global scope to be a root scope")
	}
}

func TestBuiltins_Print(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"println", `println("a", 1, true, null);`, "a 1 true null\n"},
		{"print", `print("a"); print("b");`, "ab"},
		{"print no args", "print();", ""},
		{"println no args", "println();", "\n"},
		{"nested call", "println(strLen(\"abc\"));", "3\n"},
		{"object", `println({ k: "v" });`, "{k: \"v\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			got, err := Run(t.Context(), tt.input, WithConsole(Console{Out: &out}))
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if got != Null {
				t.Errorf("expected print to return Null, got %v", got)
			}

			if out.String() != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestBuiltins_ConsoleRead(t *testing.T) {
	in := NewInterpreter(WithConsole(Console{
		In:  strings.NewReader("hello\r\nworld"),
		Out: &bytes.Buffer{},
	}))
	env := in.NewGlobalEnv()

	for _, want := range []String{"hello", "world", ""} {
		got, err := in.Exec(t.Context(), "consoleRead();", env)
		if err != nil {
			t.Fatalf("consoleRead: %v", err)
		}

		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestBuiltins_ConsoleReadError(t *testing.T) {
	_, err := Run(t.Context(), "consoleRead();",
		WithConsole(Console{In: failingReader{}, Out: &bytes.Buffer{}}))
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("expected %v, got %v", ErrReadInput, err)
	}
}

func TestBuiltins_ConsoleClear(t *testing.T) {
	var out bytes.Buffer

	got, err := Run(t.Context(), "consoleClear();", WithConsole(Console{Out: &out}))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if got != Null {
		t.Errorf("expected Null, got %v", got)
	}

	if out.String() != clearScreen {
		t.Errorf("expected clear sequence, got %q", out.String())
	}
}

func TestBuiltins_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"strLen", `strLen("ab", "cde");`, Int(5)},
		{"strLen runes", `strLen("héllo");`, Int(5)},
		{"strLen none", "strLen();", Int(0)},
		{"strLen non-string", `strLen("a", 1);`, Null},

		{"strSetAtIndex", `strSetAtIndex("abc", 1, "X");`, String("aXc")},
		{"strSetAtIndex first", `strSetAtIndex("abc", 0, "Z");`, String("Zbc")},
		{"strSetAtIndex out of range", `strSetAtIndex("abc", 3, "X");`, Null},
		{"strSetAtIndex short arity", `strSetAtIndex("abc", 1);`, Null},
		{"strSetAtIndex bad index", `strSetAtIndex("abc", "1", "X");`, Null},

		{"strContains", `strContains("hello", "ell");`, Boolean(true)},
		{"strContains missing", `strContains("hello", "xyz");`, Boolean(false)},
		{"strContains non-string", `strContains("hello", 1);`, Null},

		{"strRepeat", `strRepeat("ab", 3);`, String("ababab")},
		{"strRepeat zero", `strRepeat("ab", 0);`, String("ab")},
		{"strRepeat negative", `strRepeat("ab", 0 - 2);`, String("ab")},
		{"strRepeat non-int", `strRepeat("ab", "3");`, Null},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runSource(t, tt.input)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %s, got %s", Inspect(tt.want), Inspect(got))
			}
		})
	}
}

func TestBuiltins_Time(t *testing.T) {
	got, err := runSource(t, "time();")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if got.Type() != TypeInt64 {
		t.Fatalf("expected Int64, got %v", got.Type())
	}

	if got.(Int64) <= 0 {
		t.Errorf("expected positive tick count, got %v", got)
	}
}

func TestBuiltins_NativeReceivesCallerScope(t *testing.T) {
	in := NewInterpreter()
	env := in.NewGlobalEnv()

	var seen *Env

	_ = env.Declare("probe", &NativeFunction{
		Name: "probe",
		Fn: func(args []Value, scope *Env) (Value, error) {
			seen = scope

			return Int(len(args)), nil
		},
	}, true)

	got, err := in.Exec(t.Context(), "func f() { let local = 1; return probe(1, 2); } f();", env)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if got != Int(2) {
		t.Errorf("expected 2, got %v", got)
	}

	if seen == nil {
		t.Fatal("native was not called")
	}

	if _, ok := seen.Lookup("local"); !ok {
		t.Errorf("expected native to receive the caller's call scope")
	}
}

func TestBuiltins_NativeError(t *testing.T) {
	in := NewInterpreter()
	env := in.NewGlobalEnv()

	boom := errors.New("boom")

	_ = env.Declare("fail", &NativeFunction{
		Name: "fail",
		Fn:   func([]Value, *Env) (Value, error) { return nil, boom },
	}, true)

	_, err := in.Exec(t.Context(), "fail();", env)
	if !errors.Is(err, boom) || !errors.Is(err, ErrCall) {
		t.Errorf("expected wrapped call failure, got %v", err)
	}
}

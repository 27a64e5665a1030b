package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
)

// runPlain runs input through RunLines with the console sharing the input
// reader, and returns everything written.
func runPlain(t *testing.T, input string) string {
	t.Helper()

	in := bufio.NewReader(strings.NewReader(input))

	var console, out bytes.Buffer

	interp := lang.NewInterpreter(lang.WithConsole(lang.Console{In: in, Out: &console}))
	session := Session{Interp: interp, Env: interp.NewGlobalEnv(), Output: &console}

	if err := RunLines(t.Context(), session, in, &out, log.Default()); err != nil {
		t.Fatalf("RunLines: %v", err)
	}

	return out.String()
}

func TestRunLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bindings persist",
			input: "let x = 2;\nx * 3;\n",
			want:  "2\n6\n",
		},
		{
			name:  "null results are silent",
			input: "let y;\nnull;\n",
			want:  "",
		},
		{
			name:  "console output precedes result",
			input: "println(\"hi\");\nstrLen(\"abc\");\n",
			want:  "hi\n3\n",
		},
		{
			name:  "multi-line function",
			input: "func inc(a) {\n  return a + 1;\n}\ninc(4);\n",
			want:  "<func inc(a)>\n5\n",
		},
		{
			name:  "console reads next line",
			input: "let name = consoleRead();\nworld\nname;\n",
			want:  "\"world\"\n\"world\"\n",
		},
		{
			name:  "errors do not end the session",
			input: "missing;\n1 + 1;\n",
			want:  "error: ",
		},
		{
			name:  "quit stops reading",
			input: "1;\n:quit\n2;\n",
			want:  "1\n",
		},
		{
			name:  "final line without newline",
			input: "40 + 2;",
			want:  "42\n",
		},
		{
			name:  "list command",
			input: "const answer = 42;\n:list\n",
			want:  "42\nconst answer 42\n",
		},
		{
			name:  "unknown command",
			input: ":bogus\n",
			want:  "unknown command: bogus\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runPlain(t, tt.input)

			if strings.HasSuffix(tt.want, ": ") {
				if !strings.HasPrefix(got, tt.want) || !strings.HasSuffix(got, "2\n") {
					t.Errorf("got %q, want an error line followed by 2", got)
				}

				return
			}

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunLines_NoInput(t *testing.T) {
	err := RunLines(t.Context(), Session{}, nil, &bytes.Buffer{}, log.Default())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("RunLines(nil) error = %v, want ErrNoInput", err)
	}
}

func TestRunLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	in := bufio.NewReader(strings.NewReader("1;\n"))

	err := RunLines(ctx, Session{}, in, &bytes.Buffer{}, log.Default())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunLines error = %v, want context.Canceled", err)
	}
}

func TestUnbalanced(t *testing.T) {
	tests := map[string]bool{
		"1 + 1;":           false,
		"func f() {":       true,
		"let o = { a: (1":  true,
		"f(1);":            false,
		"\"{\";":           false,
		"}":                false,
		"let s = \"unterm": false,
	}

	for src, want := range tests {
		if got := unbalanced(t.Context(), src); got != want {
			t.Errorf("unbalanced(%q) = %v, want %v", src, got, want)
		}
	}
}

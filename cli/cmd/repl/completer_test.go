package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sulfur/lang"
)

// newTestEnv returns a global scope with src evaluated in it.
func newTestEnv(t *testing.T, src string) *lang.Env {
	t.Helper()

	in := lang.NewInterpreter()
	env := in.NewGlobalEnv()

	if _, err := in.Exec(t.Context(), src, env); err != nil {
		t.Fatalf("Exec(%q): %v", src, err)
	}

	return env
}

func TestWordBounds_Operators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"after_brace", "{ key: fo", 9, "fo", 7, 9},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Hyphens are subtraction, never part of a name.
		{"minus", "a-bc", 4, "bc", 2, 4},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_minus", "x-cfg.", 6, "cfg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	env := newTestEnv(t, `let cfg = { log: { level: "info", pretty: true }, name: "x" }; let n = 1;`)

	tests := []struct {
		name    string
		parent  string
		want    []string
		contain []string
	}{
		{name: "object members", parent: "cfg", want: []string{"log", "name"}},
		{name: "nested members", parent: "cfg.log", want: []string{"level", "pretty"}},
		{name: "not an object", parent: "n"},
		{name: "unresolved", parent: "missing"},
		{name: "member of scalar", parent: "cfg.name"},
		{
			name:    "top level",
			parent:  "",
			contain: []string{"cfg", "n", "println", "strLen", "let", "func", "return"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := childCandidates(env, tt.parent)

			if tt.contain != nil {
				for _, c := range tt.contain {
					if !slices.Contains(got, c) {
						t.Errorf("childCandidates(%q) missing %q: %v", tt.parent, c, got)
					}
				}

				return
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %v, want %v", tt.parent, got, tt.want)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	env := newTestEnv(t, `let cfg = { level: 1, label: 2 }; let counter = 0;`)

	tests := []struct {
		name  string
		input string
		mode  inputMode
		want  []string
	}{
		{name: "empty", input: "", mode: modeEval},
		{name: "fuzzy top level", input: "coun", mode: modeEval, want: []string{"counter"}},
		{name: "all members after dot", input: "cfg.", mode: modeEval, want: []string{"level", "label"}},
		{name: "member prefix", input: "cfg.lev", mode: modeEval, want: []string{"level"}},
		{name: "command", input: "qu", mode: modeCtrl, want: []string{"quit"}},
		{name: "empty command", input: "", mode: modeCtrl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model{session: Session{Env: env}, mode: tt.mode, input: textinput.New()}
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, end := m.computeMatches()

			got := matchStrings(matches)
			if !slices.Equal(got, tt.want) {
				t.Errorf("computeMatches(%q) = %v, want %v", tt.input, got, tt.want)
			}

			if end != len(tt.input) {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}
		})
	}
}

func matchStrings(matches fuzzy.Matches) []string {
	var s []string
	for _, m := range matches {
		s = append(s, m.Str)
	}

	return s
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"alpha", "beta", "gamma", "delta"})
	none := func(string) bool { return false }

	if got := renderCandidateBar(nil, 0, false, 80, none); got != "" {
		t.Errorf("no matches: got %q, want empty", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0, none); got != "" {
		t.Errorf("zero width: got %q, want empty", got)
	}

	narrow := renderCandidateBar(matches, 0, false, 12, none)
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar should be ellipsized: %q", narrow)
	}

	wide := renderCandidateBar(matches, 0, false, 200, func(s string) bool { return s == "alpha" })
	if strings.Contains(wide, "...") {
		t.Errorf("wide bar should not be ellipsized: %q", wide)
	}

	if !strings.Contains(wide, "()") {
		t.Errorf("callable candidate should carry a call suffix: %q", wide)
	}
}

func TestIsCallable(t *testing.T) {
	env := newTestEnv(t, "func twice(x) { return x * 2; } let n = 3;")

	tests := map[string]bool{
		"twice":   true,
		"println": true,
		"n":       false,
		"missing": false,
	}

	for name, want := range tests {
		if got := isCallable(env, name); got != want {
			t.Errorf("isCallable(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		v    lang.Value
		want string
	}{
		{"int", lang.Int(7), "7"},
		{"string", lang.String("hi"), `"hi"`},
		{"function", &lang.Function{Name: "f", Params: []string{"a", "b"}}, "f(a, b)"},
		{"native", &lang.NativeFunction{Name: "time"}, "<native time>"},
		{
			"truncated",
			lang.String(strings.Repeat("x", 60)),
			`"` + strings.Repeat("x", 36) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.v); got != tt.want {
				t.Errorf("preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

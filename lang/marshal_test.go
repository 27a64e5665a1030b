package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestProgram_ToMap(t *testing.T) {
	m := mustParse(t, "let x = { a, b: 1 }; x.b;").ToMap()

	if m["kind"] != "Program" {
		t.Fatalf("expected Program kind, got %v", m["kind"])
	}

	body, ok := m["body"].([]any)
	if !ok || len(body) != 2 {
		t.Fatalf("expected 2 body entries, got %v", m["body"])
	}

	decl, _ := body[0].(map[string]any)
	if decl["kind"] != "VarDecl" || decl["name"] != "x" || decl["constant"] != false {
		t.Errorf("unexpected declaration %v", decl)
	}

	obj, _ := decl["value"].(map[string]any)

	props, _ := obj["properties"].([]any)
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %v", obj["properties"])
	}

	if short, _ := props[0].(map[string]any); short["key"] != "a" || short["value"] != nil {
		t.Errorf("expected shorthand property a, got %v", short)
	}

	member, _ := body[1].(map[string]any)
	if member["kind"] != "MemberExpr" || member["computed"] != false {
		t.Errorf("unexpected member %v", member)
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	prog := mustParse(t, "1 + 2;")

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("format: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if decoded["kind"] != "Program" {
		t.Errorf("expected Program, got %v", decoded["kind"])
	}

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected compact single-line output, got %q", buf.String())
	}

	buf.Reset()

	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"body\"") {
		t.Errorf("expected indented output, got %s", buf.String())
	}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !bytes.Contains(data, []byte(`"operator":"+"`)) {
		t.Errorf("expected operator in %s", data)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	prog := mustParse(t, `let s = "v";`)

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format: %v", err)
	}

	for _, want := range []string{"kind: Program", "kind: VarDecl", "name: s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in:\n%s", want, buf.String())
		}
	}

	data, err := prog.MarshalYAML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !bytes.Contains(data, []byte("kind: StringLiteral")) {
		t.Errorf("expected string literal in:\n%s", data)
	}
}

func TestFormatValue(t *testing.T) {
	obj := NewObject()
	obj.Set("n", Int(7))
	obj.Set("s", String("x"))

	var buf bytes.Buffer
	if err := FormatValueJSON(t.Context(), &buf, obj, 0); err != nil {
		t.Fatalf("format: %v", err)
	}

	if got, want := buf.String(), "{\"n\":7,\"s\":\"x\"}\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	buf.Reset()

	if err := FormatValueYAML(t.Context(), &buf, obj, 2); err != nil {
		t.Fatalf("format: %v", err)
	}

	if !strings.Contains(buf.String(), "n: 7") || !strings.Contains(buf.String(), "s: x") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}
}

func TestToNative(t *testing.T) {
	obj := NewObject()
	obj.Set("k", Boolean(true))
	obj.Set("o", NewObject())

	tests := []struct {
		in   Value
		want any
	}{
		{Null, nil},
		{Int(-3), int32(-3)},
		{Int64(1 << 40), int64(1 << 40)},
		{Boolean(false), false},
		{String("s"), "s"},
		{obj, map[string]any{"k": true, "o": map[string]any{}}},
		{&Function{Name: "f", Params: []string{"a"}}, "<func f(a)>"},
		{&NativeFunction{Name: "print"}, "<native print>"},
	}

	for _, tt := range tests {
		if got := ToNative(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ToNative(%s): expected %#v, got %#v", Inspect(tt.in), tt.want, got)
		}
	}
}

func TestFromNative(t *testing.T) {
	n := 5

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null},
		{"bool", true, Boolean(true)},
		{"string", "s", String("s")},
		{"int", 42, Int(42)},
		{"int8", int8(-8), Int(-8)},
		{"large int", int64(math.MaxInt32) + 1, Int64(math.MaxInt32 + 1)},
		{"uint", uint16(9), Int(9)},
		{"integral float", 3.0, Int(3)},
		{"value", String("kept"), String("kept")},
		{"pointer", &n, Int(5)},
		{"nil pointer", (*int)(nil), Null},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNative(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %s, got %s", Inspect(tt.want), Inspect(got))
			}
		})
	}
}

func TestFromNative_Map(t *testing.T) {
	got, err := FromNative(map[string]any{"b": 2, "a": "x", "c": map[string]int{"z": 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := got.(*Object)
	if !ok {
		t.Fatalf("expected Object, got %v", got.Type())
	}

	if keys := obj.Keys(); !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("expected sorted keys, got %v", keys)
	}

	if got.String() != `{a: "x", b: 2, c: {z: 1}}` {
		t.Errorf("unexpected object %s", got)
	}
}

func TestFromNative_Errors(t *testing.T) {
	for _, in := range []any{
		1.5,
		uint64(math.MaxUint64),
		[]int{1},
		map[int]string{1: "a"},
		map[string]any{"bad": 0.25},
		struct{}{},
	} {
		_, err := FromNative(in)
		if !errors.Is(err, ErrUnsupportedNative) || !errors.Is(err, ErrConversion) {
			t.Errorf("FromNative(%#v): expected %v, got %v", in, ErrUnsupportedNative, err)
		}
	}
}

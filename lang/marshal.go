package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// MarshalYAML implements yaml.BytesMarshaler for Program.
func (p *Program) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(p.ToMap())
}

// ToMap converts the program to a tree of native Go maps and slices.
// Every node becomes a map with a "kind" key naming its variant.
func (p *Program) ToMap() map[string]any {
	m, _ := nodeMap(p).(map[string]any)

	return m
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, p.ToMap(), indent)
}

// FormatValueJSON writes the native form of v as JSON to the writer.
func FormatValueJSON(_ context.Context, w io.Writer, v Value, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToNative(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToNative(v))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatValueYAML writes the native form of v as YAML to the writer.
func FormatValueYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	return writeYAML(ctx, w, ToNative(v), indent)
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func nodeMap(n Node) any {
	if n == nil {
		return nil
	}

	m := map[string]any{"kind": n.Kind().String()}

	switch n := n.(type) {
	case *Program:
		m["body"] = stmtList(n.Body)

	case *VarDecl:
		m["name"] = n.Name
		m["constant"] = n.Constant

		if n.Value != nil {
			m["value"] = nodeMap(n.Value)
		}

	case *FuncDecl:
		m["name"] = n.Name
		m["params"] = slices.Clone(n.Params)
		m["body"] = stmtList(n.Body)

	case *ReturnDecl:
		m["arg"] = nodeMap(n.Arg)

	case *IfDecl:
		m["condition"] = nodeMap(n.Condition)
		m["body"] = stmtList(n.Body)
		m["else"] = stmtList(n.Else)

	case *Identifier:
		m["symbol"] = n.Symbol

	case *IntLiteral:
		m["value"] = n.Value

	case *LongLiteral:
		m["value"] = n.Value

	case *StringLiteral:
		m["value"] = n.Value

	case *ObjectLiteral:
		props := make([]any, len(n.Properties))

		for i, prop := range n.Properties {
			pm := map[string]any{"key": prop.Key}
			if !prop.Shorthand() {
				pm["value"] = nodeMap(prop.Value)
			}

			props[i] = pm
		}

		m["properties"] = props

	case *BinaryExpr:
		m["operator"] = n.Operator
		m["left"] = nodeMap(n.Left)
		m["right"] = nodeMap(n.Right)

	case *UnaryExpr:
		m["operator"] = n.Operator
		m["operand"] = nodeMap(n.Operand)

	case *LogicalExpr:
		m["operator"] = n.Operator
		m["left"] = nodeMap(n.Left)
		m["right"] = nodeMap(n.Right)

	case *MemberExpr:
		m["object"] = nodeMap(n.Object)
		m["property"] = nodeMap(n.Property)
		m["computed"] = n.Computed

	case *CallExpr:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = nodeMap(arg)
		}

		m["callee"] = nodeMap(n.Callee)
		m["args"] = args

	case *AssignmentExpr:
		m["target"] = nodeMap(n.Target)
		m["value"] = nodeMap(n.Value)
	}

	return m
}

func stmtList(body []Stmt) []any {
	list := make([]any, len(body))
	for i, s := range body {
		list[i] = nodeMap(s)
	}

	return list
}

// ToNative converts a Value to its native Go type. Objects become
// map[string]any; callables become their string form.
func ToNative(v Value) any {
	switch v := v.(type) {
	case nil, NullValue:
		return nil
	case Int:
		return int32(v)
	case Int64:
		return int64(v)
	case Boolean:
		return bool(v)
	case String:
		return string(v)
	case *Object:
		m := make(map[string]any, v.Len())
		for k, fv := range v.All() {
			m[k] = ToNative(fv)
		}

		return m
	default:
		return v.String()
	}
}

// FromNative converts a native Go value to a Value. Integers that fit in 32
// bits become Int, other integers Int64. Floats are accepted only when they
// hold an integral value. Maps with string keys become Objects with sorted
// keys.
func FromNative(x any) (Value, error) {
	if x == nil {
		return Null, nil
	}

	if v, ok := x.(Value); ok {
		return v, nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Bool:
		return Boolean(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromInt(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, ErrUnsupportedNative.With(slog.String("value", fmt.Sprint(x)))
		}

		return fromInt(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return nil, ErrUnsupportedNative.With(slog.String("value", fmt.Sprint(x)))
		}

		return fromInt(int64(f)), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		obj := NewObject()

		for _, k := range keys {
			fv, err := FromNative(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, err
			}

			obj.Set(k, fv)
		}

		return obj, nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null, nil
		}

		return FromNative(rv.Elem().Interface())
	}

	return nil, ErrUnsupportedNative.With(slog.String("type", rv.Type().String()))
}

func fromInt(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int(n)
	}

	return Int64(n)
}

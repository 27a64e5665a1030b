package lang

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Type is the tag carried by every runtime [Value].
type Type int

const (
	TypeNull Type = iota
	TypeInt
	TypeInt64
	TypeBoolean
	TypeString
	TypeObject
	TypeNativeFunction
	TypeFunction
	TypeDeferredBranch
)

var typeName = [...]string{
	TypeNull:           "Null",
	TypeInt:            "Int",
	TypeInt64:          "Int64",
	TypeBoolean:        "Boolean",
	TypeString:         "String",
	TypeObject:         "Object",
	TypeNativeFunction: "NativeFunction",
	TypeFunction:       "Function",
	TypeDeferredBranch: "DeferredBranch",
}

// String returns the name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeName) {
		return "Type(?)"
	}

	return typeName[t]
}

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	Type() Type
	String() string
	value()
}

// NullValue is the type of [Null]. Use [Null] rather than constructing one.
type NullValue struct{}

// Null is the single null value.
var Null Value = NullValue{}

type (
	// Int is a 32-bit signed integer.
	Int int32

	// Int64 is a 64-bit signed integer.
	Int64 int64

	// Boolean is true or false.
	Boolean bool

	// String is a sequence of characters.
	String string
)

// Object maps unique names to values, remembering insertion order.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NativeFunc is the signature of host callbacks. It receives the evaluated
// arguments and the caller's active scope.
type NativeFunc func(args []Value, env *Env) (Value, error)

// NativeFunction is a callable implemented by the host.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

// Function is a user-defined function closing over Scope.
type Function struct {
	Name   string
	Params []string
	Scope  *Env
	Body   []Stmt
}

// DeferredBranch is a selected conditional body paired with the scope it runs
// in. It is produced and consumed only by the evaluator.
type DeferredBranch struct {
	Scope *Env
	Body  []Stmt
}

func (NullValue) Type() Type { return TypeNull }
func (Int) Type() Type { return TypeInt }
func (Int64) Type() Type { return TypeInt64 }
func (Boolean) Type() Type { return TypeBoolean }
func (String) Type() Type { return TypeString }
func (*Object) Type() Type { return TypeObject }
func (*NativeFunction) Type() Type { return TypeNativeFunction }
func (*Function) Type() Type { return TypeFunction }
func (*DeferredBranch) Type() Type { return TypeDeferredBranch }
func (NullValue) value() {}
func (Int) value() {}
func (Int64) value() {}
func (Boolean) value() {}
func (String) value() {}
func (*Object) value() {}
func (*NativeFunction) value() {}
func (*Function) value() {}
func (*DeferredBranch) value() {}
func (NullValue) String() string { return "null" }
func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }
func (v String) String() string { return string(v) }
func (v *NativeFunction) String() string { return "<native " + v.Name + ">" }
func (*DeferredBranch) String() string { return "<branch>" }

func (v *Function) String() string {
	return "<func " + v.Name + "(" + strings.Join(v.Params, ", ") + ")>"
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Get returns the value bound to key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]

	return v, ok
}

// Set binds key to v. A new key is appended to the iteration order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.fields[key] = v
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// All returns an iterator over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.keys {
			if !yield(k, o.fields[k]) {
				return
			}
		}
	}
}

// String renders the object as {key: value, ...} with strings quoted.
func (o *Object) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(Inspect(o.fields[k]))
	}

	sb.WriteByte('}')

	return sb.String()
}

// Inspect renders v the way a literal would be written: strings are quoted,
// everything else uses [Value.String].
func Inspect(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}

	if v == nil {
		return Null.String()
	}

	return v.String()
}

// IsNull reports whether v is the null value.
func IsNull(v Value) bool {
	return v == nil || v.Type() == TypeNull
}

// Truthy reports whether v selects the then-branch of a conditional. Only
// the Boolean true does.
func Truthy(v Value) bool {
	b, ok := v.(Boolean)

	return ok && bool(b)
}

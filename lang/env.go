package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Env is a lexical scope: a set of bindings with an optional parent.
// The parent of a scope never changes after creation.
type Env struct {
	parent    *Env
	bindings  map[string]Value
	constants map[string]struct{}
}

// NewEnv returns an empty scope enclosed by parent. A nil parent creates a
// root scope.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent:    parent,
		bindings:  make(map[string]Value),
		constants: make(map[string]struct{}),
	}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Declare binds name in this scope. It fails if name is already bound here,
// regardless of any binding in an enclosing scope.
func (e *Env) Declare(name string, v Value, constant bool) error {
	if _, ok := e.bindings[name]; ok {
		return ErrDuplicateDeclaration.With(slog.String("name", name))
	}

	if v == nil {
		v = Null
	}

	e.bindings[name] = v

	if constant {
		e.constants[name] = struct{}{}
	}

	return nil
}

// Read returns the value bound to name in the nearest enclosing scope.
func (e *Env) Read(name string) (Value, error) {
	scope, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}

	return scope.bindings[name], nil
}

// Assign overwrites the nearest binding of name. Constants are never
// modified.
func (e *Env) Assign(name string, v Value) error {
	scope, err := e.Resolve(name)
	if err != nil {
		return err
	}

	if _, ok := scope.constants[name]; ok {
		return ErrConstantAssignment.With(slog.String("name", name))
	}

	if v == nil {
		v = Null
	}

	scope.bindings[name] = v

	return nil
}

// Resolve returns the innermost scope, starting at e, that binds name.
func (e *Env) Resolve(name string) (*Env, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.bindings[name]; ok {
			return scope, nil
		}
	}

	return nil, ErrUnresolvedName.With(slog.String("name", name))
}

// Lookup returns the value bound to name in this scope only.
func (e *Env) Lookup(name string) (Value, bool) {
	v, ok := e.bindings[name]

	return v, ok
}

// IsConstant reports whether name is bound as a constant in this scope.
func (e *Env) IsConstant(name string) bool {
	_, ok := e.constants[name]

	return ok
}

// Depth returns the number of enclosing scopes.
func (e *Env) Depth() int {
	n := 0
	for scope := e.parent; scope != nil; scope = scope.parent {
		n++
	}

	return n
}

// All returns an iterator over every visible binding, innermost scope first.
// Shadowed bindings are skipped. Names within one scope are sorted.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		seen := make(map[string]struct{})

		for scope := e; scope != nil; scope = scope.parent {
			for _, name := range slices.Sorted(maps.Keys(scope.bindings)) {
				if _, ok := seen[name]; ok {
					continue
				}

				seen[name] = struct{}{}

				if !yield(name, scope.bindings[name]) {
					return
				}
			}
		}
	}
}

// Names returns the names of every visible binding.
func (e *Env) Names() []string {
	names := make([]string, 0)
	for name := range e.All() {
		names = append(names, name)
	}

	return names
}

package lang

import (
	"bufio"
	"context"
	"log/slog"
	"math"
)

// Interpreter evaluates parsed programs. An Interpreter is not safe for
// concurrent use.
type Interpreter struct {
	config

	depth int
	input *bufio.Reader
}

// NewInterpreter returns an Interpreter configured by opts.
func NewInterpreter(opts ...Option) *Interpreter {
	return &Interpreter{config: makeConfig(opts...)}
}

// Run parses and evaluates src in a fresh global scope and returns the value
// of the last top-level statement.
func Run(ctx context.Context, src string, opts ...Option) (Value, error) {
	in := NewInterpreter(opts...)

	return in.Exec(ctx, src, in.NewGlobalEnv())
}

// Exec parses src and evaluates it in env. It does not consult the parse
// cache.
func (in *Interpreter) Exec(ctx context.Context, src string, env *Env) (Value, error) {
	prog, err := ParseString(ctx, src, WithLogger(in.logger))
	if err != nil {
		return nil, err
	}

	return in.Evaluate(ctx, prog, env)
}

// Evaluate evaluates node in env. A Program evaluates to the value of its
// last statement.
func (in *Interpreter) Evaluate(ctx context.Context, node Node, env *Env) (Value, error) {
	in.logger.TraceContext(ctx, "evaluate start", slog.String("node", node.Kind().String()))

	v, err := in.eval(ctx, node, env, true)
	if err != nil {
		return nil, err
	}

	if _, ok := v.(*DeferredBranch); ok {
		v = Null
	}

	in.logger.TraceContext(ctx, "evaluate complete", valueAttr("result", v))

	return v, nil
}

// eval dispatches on the node kind. When immediate is set, conditionals run
// their selected branch in place and evaluate to Null; otherwise they
// evaluate to an unexecuted *DeferredBranch.
func (in *Interpreter) eval(ctx context.Context, node Node, env *Env, immediate bool) (Value, error) {
	switch n := node.(type) {
	case *Program:
		var last Value = Null

		for _, stmt := range n.Body {
			v, err := in.eval(ctx, stmt, env, true)
			if err != nil {
				return nil, err
			}

			last = v
		}

		return last, nil

	case *VarDecl:
		var v Value = Null

		if n.Value != nil {
			var err error
			if v, err = in.evalExpr(ctx, n.Value, env); err != nil {
				return nil, err
			}
		}

		if err := env.Declare(n.Name, v, n.Constant); err != nil {
			return nil, err
		}

		return v, nil

	case *FuncDecl:
		fn := &Function{Name: n.Name, Params: n.Params, Scope: env, Body: n.Body}
		if err := env.Declare(n.Name, fn, true); err != nil {
			return nil, err
		}

		return fn, nil

	case *ReturnDecl:
		return in.evalExpr(ctx, n.Arg, env)

	case *IfDecl:
		return in.evalIf(ctx, n, env, immediate)

	case Expr:
		return in.evalExpr(ctx, n, env)

	default:
		return nil, ErrCall.With(slog.String("unsupported", node.Kind().String()))
	}
}

func (in *Interpreter) evalIf(ctx context.Context, n *IfDecl, env *Env, immediate bool) (Value, error) {
	cond, err := in.eval(ctx, n.Condition, env, true)
	if err != nil {
		return nil, err
	}

	body := n.Else
	if Truthy(cond) {
		body = n.Body
	}

	branch := &DeferredBranch{Scope: NewEnv(env), Body: body}

	if !immediate {
		return branch, nil
	}

	for _, stmt := range branch.Body {
		if _, err := in.eval(ctx, stmt, branch.Scope, true); err != nil {
			return nil, err
		}
	}

	return Null, nil
}

func (in *Interpreter) evalExpr(ctx context.Context, expr Expr, env *Env) (Value, error) {
	switch n := expr.(type) {
	case *Identifier:
		return env.Read(n.Symbol)

	case *IntLiteral:
		return Int(n.Value), nil

	case *LongLiteral:
		return Int64(n.Value), nil

	case *StringLiteral:
		return String(n.Value), nil

	case *ObjectLiteral:
		return in.evalObject(ctx, n, env)

	case *BinaryExpr:
		left, err := in.evalExpr(ctx, n.Left, env)
		if err != nil {
			return nil, err
		}

		right, err := in.evalExpr(ctx, n.Right, env)
		if err != nil {
			return nil, err
		}

		return binaryOp(n.Operator, left, right)

	case *UnaryExpr:
		operand, err := in.evalExpr(ctx, n.Operand, env)
		if err != nil {
			return nil, err
		}

		if b, ok := operand.(Boolean); ok && n.Operator == "!" {
			return !b, nil
		}

		return Null, nil

	case *LogicalExpr:
		// Both operands are always evaluated.
		left, err := in.evalExpr(ctx, n.Left, env)
		if err != nil {
			return nil, err
		}

		right, err := in.evalExpr(ctx, n.Right, env)
		if err != nil {
			return nil, err
		}

		return logicalOp(n.Operator, left, right), nil

	case *MemberExpr:
		return in.evalMember(ctx, n, env)

	case *CallExpr:
		return in.evalCall(ctx, n, env)

	case *AssignmentExpr:
		return in.evalAssignment(ctx, n, env)

	default:
		return nil, ErrCall.With(slog.String("unsupported", expr.Kind().String()))
	}
}

func (in *Interpreter) evalObject(ctx context.Context, n *ObjectLiteral, env *Env) (Value, error) {
	obj := NewObject()

	for _, prop := range n.Properties {
		var (
			v   Value
			err error
		)

		if prop.Shorthand() {
			v, err = env.Read(prop.Key)
		} else {
			v, err = in.evalExpr(ctx, prop.Value, env)
		}

		if err != nil {
			return nil, err
		}

		obj.Set(prop.Key, v)
	}

	return obj, nil
}

func (in *Interpreter) evalMember(ctx context.Context, n *MemberExpr, env *Env) (Value, error) {
	target, err := in.evalExpr(ctx, n.Object, env)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *Object:
		key, ok := n.Property.(*Identifier)
		if !n.Computed && ok {
			return lookup(t, key.Symbol), nil
		}

		prop, err := in.evalExpr(ctx, n.Property, env)
		if err != nil {
			return nil, err
		}

		if s, ok := prop.(String); ok {
			return lookup(t, string(s)), nil
		}

		return Null, nil

	case String:
		prop, err := in.evalExpr(ctx, n.Property, env)
		if err != nil {
			return nil, err
		}

		var index int

		switch i := prop.(type) {
		case Int:
			index = int(i)
		case Int64:
			index = int(min(max(int64(i), math.MinInt32), math.MaxInt32))
		default:
			return Null, nil
		}

		runes := []rune(string(t))
		if index < 0 || index >= len(runes) {
			return Null, nil
		}

		return String(runes[index]), nil

	default:
		return Null, nil
	}
}

func lookup(obj *Object, key string) Value {
	if v, ok := obj.Get(key); ok {
		return v
	}

	return Null
}

func (in *Interpreter) evalAssignment(ctx context.Context, n *AssignmentExpr, env *Env) (Value, error) {
	v, err := in.evalExpr(ctx, n.Value, env)
	if err != nil {
		return nil, err
	}

	switch target := n.Target.(type) {
	case *Identifier:
		if err := env.Assign(target.Symbol, v); err != nil {
			return nil, err
		}

		return v, nil

	case *MemberExpr:
		id, isIdent := target.Object.(*Identifier)
		key, isKey := target.Property.(*Identifier)

		if isIdent && isKey && !target.Computed {
			owner, err := env.Read(id.Symbol)
			if err != nil {
				return nil, err
			}

			if obj, ok := owner.(*Object); ok {
				obj.Set(key.Symbol, v)

				return v, nil
			}
		}
	}

	return nil, ErrInvalidAssignment.With(slog.String("target", n.Target.Kind().String()))
}

func (in *Interpreter) evalCall(ctx context.Context, n *CallExpr, env *Env) (Value, error) {
	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := in.evalExpr(ctx, arg, env)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	callee, err := in.evalExpr(ctx, n.Callee, env)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *NativeFunction:
		in.logger.TraceContext(ctx, "native call",
			slog.String("name", fn.Name),
			slog.Int("arity", len(args)))

		v, err := fn.Fn(args, env)
		if err != nil {
			return nil, ErrCall.Wrap(err).With(slog.String("native", fn.Name))
		}

		if v == nil {
			v = Null
		}

		return v, nil

	case *Function:
		return in.call(ctx, fn, args)

	default:
		return nil, ErrNotCallable.With(slog.String("type", callee.Type().String()))
	}
}

// call invokes a user function with already-evaluated arguments.
func (in *Interpreter) call(ctx context.Context, fn *Function, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, ErrArityMismatch.With(
			slog.String("function", fn.Name),
			slog.Int("expected", len(fn.Params)),
			slog.Int("found", len(args)),
		)
	}

	if in.maxCallDepth > 0 && in.depth >= in.maxCallDepth {
		return nil, ErrCallDepth.With(
			slog.String("function", fn.Name),
			slog.Int("limit", in.maxCallDepth),
		)
	}

	in.depth++
	defer func() { in.depth-- }()

	in.logger.TraceContext(ctx, "function call",
		slog.String("name", fn.Name),
		slog.Int("arity", len(args)),
		slog.Int("depth", in.depth))

	scope := NewEnv(fn.Scope)

	for i, param := range fn.Params {
		if err := scope.Declare(param, args[i], false); err != nil {
			return nil, err
		}
	}

	var last Value = Null

	for _, stmt := range fn.Body {
		v, err := in.eval(ctx, stmt, scope, false)
		if err != nil {
			return nil, err
		}

		branch, ok := v.(*DeferredBranch)
		if !ok {
			last = v

			continue
		}

		rv, found, err := in.scan(ctx, branch)
		if err != nil {
			return nil, err
		}

		if found {
			return rv, nil
		}

		last = Null
	}

	return last, nil
}

// scan executes branch depth-first and reports the value of the first
// return statement reached.
func (in *Interpreter) scan(ctx context.Context, branch *DeferredBranch) (Value, bool, error) {
	in.logger.TraceContext(ctx, "branch scan",
		slog.Int("statement_count", len(branch.Body)),
		slog.Int("scope_depth", branch.Scope.Depth()))

	for _, stmt := range branch.Body {
		if ret, ok := stmt.(*ReturnDecl); ok {
			v, err := in.evalExpr(ctx, ret.Arg, branch.Scope)

			return v, err == nil, err
		}

		v, err := in.eval(ctx, stmt, branch.Scope, false)
		if err != nil {
			return nil, false, err
		}

		if inner, ok := v.(*DeferredBranch); ok {
			rv, found, err := in.scan(ctx, inner)
			if err != nil || found {
				return rv, found, err
			}
		}
	}

	return Null, false, nil
}

// binaryOp applies an arithmetic or relational operator. Operands with
// different tags, or tags the operator is not defined for, yield Null.
func binaryOp(op string, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Int:
		r, ok := right.(Int)
		if !ok {
			return Null, nil
		}

		switch op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/", "%":
			if r == 0 {
				return nil, ErrDivisionByZero.With(
					slog.String("operator", op),
					slog.Int("left", int(l)),
				)
			}

			if l == math.MinInt32 && r == -1 {
				return nil, ErrIntegerOverflow.With(
					slog.String("operator", op),
					slog.Int("left", int(l)),
				)
			}

			if op == "/" {
				return l / r, nil
			}

			return l % r, nil
		}

		return compare(op, l, r), nil

	case Int64:
		r, ok := right.(Int64)
		if !ok {
			return Null, nil
		}

		return compare(op, l, r), nil

	case Boolean:
		r, ok := right.(Boolean)
		if !ok {
			return Null, nil
		}

		return equality(op, l, r), nil

	case String:
		r, ok := right.(String)
		if !ok {
			return Null, nil
		}

		if op == "+" {
			return l + r, nil
		}

		return equality(op, l, r), nil
	}

	return Null, nil
}

func compare[T Int | Int64](op string, l, r T) Value {
	switch op {
	case "==":
		return Boolean(l == r)
	case "!=":
		return Boolean(l != r)
	case ">":
		return Boolean(l > r)
	case "<":
		return Boolean(l < r)
	case ">=":
		return Boolean(l >= r)
	case "<=":
		return Boolean(l <= r)
	}

	return Null
}

func equality[T Boolean | String](op string, l, r T) Value {
	switch op {
	case "==":
		return Boolean(l == r)
	case "!=":
		return Boolean(l != r)
	}

	return Null
}

func logicalOp(op string, left, right Value) Value {
	l, lok := left.(Boolean)
	r, rok := right.(Boolean)

	if !lok || !rok {
		return Null
	}

	switch op {
	case "&&":
		return l && r
	case "||":
		return l || r
	}

	return Null
}

package lang

import "iter"

// NodeKind identifies the variant of an AST node.
type NodeKind int

const (
	// Statements.
	KindProgram NodeKind = iota
	KindVarDecl
	KindFuncDecl
	KindReturnDecl
	KindIfDecl

	// Expressions.
	KindIdentifier
	KindIntLiteral
	KindLongLiteral
	KindStringLiteral
	KindObjectLiteral
	KindBinaryExpr
	KindUnaryExpr
	KindLogicalExpr
	KindMemberExpr
	KindCallExpr
	KindAssignmentExpr
)

var nodeKindName = [...]string{
	KindProgram:        "Program",
	KindVarDecl:        "VarDecl",
	KindFuncDecl:       "FuncDecl",
	KindReturnDecl:     "ReturnDecl",
	KindIfDecl:         "IfDecl",
	KindIdentifier:     "Identifier",
	KindIntLiteral:     "IntLiteral",
	KindLongLiteral:    "LongLiteral",
	KindStringLiteral:  "StringLiteral",
	KindObjectLiteral:  "ObjectLiteral",
	KindBinaryExpr:     "BinaryExpr",
	KindUnaryExpr:      "UnaryExpr",
	KindLogicalExpr:    "LogicalExpr",
	KindMemberExpr:     "MemberExpr",
	KindCallExpr:       "CallExpr",
	KindAssignmentExpr: "AssignmentExpr",
}

// String returns the name of the node kind.
func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindName) {
		return "NodeKind(?)"
	}

	return nodeKindName[k]
}

// Node is implemented by every AST node.
type Node interface {
	Kind() NodeKind
	node()
}

// Stmt is a node that may appear in a statement list.
type Stmt interface {
	Node
	stmt()
}

// Expr is a node that produces a value. Every expression is also a statement.
type Expr interface {
	Stmt
	expr()
}

// Program is the root of a parsed source text.
type Program struct {
	Body []Stmt
}

// All returns an iterator over the top-level statements of the program.
func (p *Program) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		for _, s := range p.Body {
			if !yield(s) {
				return
			}
		}
	}
}

// VarDecl is a let or const declaration. Value is nil when the declaration
// has no initializer.
type VarDecl struct {
	Name     string
	Constant bool
	Value    Expr
}

// FuncDecl declares a named function.
type FuncDecl struct {
	Name   string
	Params []string
	Body   []Stmt
}

// ReturnDecl returns Arg from the enclosing function.
type ReturnDecl struct {
	Arg Expr
}

// IfDecl is a conditional. The condition is a full statement.
type IfDecl struct {
	Condition Stmt
	Body      []Stmt
	Else      []Stmt
}

type (
	// Identifier references a binding by name.
	Identifier struct {
		Symbol string
	}

	// IntLiteral is a 32-bit integer constant.
	IntLiteral struct {
		Value int32
	}

	// LongLiteral is a 64-bit integer constant.
	LongLiteral struct {
		Value int64
	}

	// StringLiteral is a string constant.
	StringLiteral struct {
		Value string
	}

	// ObjectLiteral constructs an Object from its properties, in order.
	ObjectLiteral struct {
		Properties []Property
	}

	// BinaryExpr applies an arithmetic or relational operator.
	BinaryExpr struct {
		Left     Expr
		Right    Expr
		Operator string
	}

	// UnaryExpr applies a prefix operator.
	UnaryExpr struct {
		Operand  Expr
		Operator string
	}

	// LogicalExpr applies && or ||.
	LogicalExpr struct {
		Left     Expr
		Right    Expr
		Operator string
	}

	// MemberExpr accesses Property of Object. When Computed is false,
	// Property is an *Identifier naming the key.
	MemberExpr struct {
		Object   Expr
		Property Expr
		Computed bool
	}

	// CallExpr invokes Callee with Args.
	CallExpr struct {
		Callee Expr
		Args   []Expr
	}

	// AssignmentExpr stores Value into Target.
	AssignmentExpr struct {
		Target Expr
		Value  Expr
	}
)

// Property is an object literal entry. A nil Value denotes shorthand: the
// value is read from the binding named Key.
type Property struct {
	Key   string
	Value Expr
}

// Shorthand reports whether the property omits its value.
func (p Property) Shorthand() bool { return p.Value == nil }

func (*Program) Kind() NodeKind { return KindProgram }
func (*VarDecl) Kind() NodeKind { return KindVarDecl }
func (*FuncDecl) Kind() NodeKind { return KindFuncDecl }
func (*ReturnDecl) Kind() NodeKind { return KindReturnDecl }
func (*IfDecl) Kind() NodeKind { return KindIfDecl }
func (*Identifier) Kind() NodeKind { return KindIdentifier }
func (*IntLiteral) Kind() NodeKind { return KindIntLiteral }
func (*LongLiteral) Kind() NodeKind { return KindLongLiteral }
func (*StringLiteral) Kind() NodeKind { return KindStringLiteral }
func (*ObjectLiteral) Kind() NodeKind { return KindObjectLiteral }
func (*BinaryExpr) Kind() NodeKind { return KindBinaryExpr }
func (*UnaryExpr) Kind() NodeKind { return KindUnaryExpr }
func (*LogicalExpr) Kind() NodeKind { return KindLogicalExpr }
func (*MemberExpr) Kind() NodeKind { return KindMemberExpr }
func (*CallExpr) Kind() NodeKind { return KindCallExpr }
func (*AssignmentExpr) Kind() NodeKind { return KindAssignmentExpr }

func (*Program) node() {}
func (*VarDecl) node() {}
func (*FuncDecl) node() {}
func (*ReturnDecl) node() {}
func (*IfDecl) node() {}
func (*Identifier) node() {}
func (*IntLiteral) node() {}
func (*LongLiteral) node() {}
func (*StringLiteral) node() {}
func (*ObjectLiteral) node() {}
func (*BinaryExpr) node() {}
func (*UnaryExpr) node() {}
func (*LogicalExpr) node() {}
func (*MemberExpr) node() {}
func (*CallExpr) node() {}
func (*AssignmentExpr) node() {}

func (*VarDecl) stmt() {}
func (*FuncDecl) stmt() {}
func (*ReturnDecl) stmt() {}
func (*IfDecl) stmt() {}
func (*Identifier) stmt() {}
func (*IntLiteral) stmt() {}
func (*LongLiteral) stmt() {}
func (*StringLiteral) stmt() {}
func (*ObjectLiteral) stmt() {}
func (*BinaryExpr) stmt() {}
func (*UnaryExpr) stmt() {}
func (*LogicalExpr) stmt() {}
func (*MemberExpr) stmt() {}
func (*CallExpr) stmt() {}
func (*AssignmentExpr) stmt() {}

func (*Identifier) expr() {}
func (*IntLiteral) expr() {}
func (*LongLiteral) expr() {}
func (*StringLiteral) expr() {}
func (*ObjectLiteral) expr() {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr() {}
func (*LogicalExpr) expr() {}
func (*MemberExpr) expr() {}
func (*CallExpr) expr() {}
func (*AssignmentExpr) expr() {}

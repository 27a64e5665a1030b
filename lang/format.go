package lang

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format writes the program as Sulfur source. With indent > 0 each statement
// is placed on its own line and block bodies are indented by that many
// spaces; otherwise the output is a single line.
//
// Nested binary and logical expressions are always parenthesized, so parsing
// the output yields a program with the same structure as p.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{indent: indent}
	f.stmts(p.Body, 0)

	if indent > 0 || f.sb.Len() > 0 {
		f.sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatNode returns the source form of a single node.
func FormatNode(n Node) string {
	f := &formatter{}

	switch n := n.(type) {
	case *Program:
		f.stmts(n.Body, 0)
	case Expr:
		f.expr(n)
	case Stmt:
		f.stmt(n, 0)
	}

	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

func (f *formatter) newline(depth int) {
	if f.indent <= 0 {
		f.sb.WriteByte(' ')

		return
	}

	f.sb.WriteByte('\n')
	f.sb.WriteString(strings.Repeat(" ", f.indent*depth))
}

func (f *formatter) stmts(body []Stmt, depth int) {
	for i, s := range body {
		if i > 0 {
			if f.indent > 0 {
				f.sb.WriteByte('\n')
				f.sb.WriteString(strings.Repeat(" ", f.indent*depth))
			} else {
				f.sb.WriteByte(' ')
			}
		}

		f.stmt(s, depth)
	}
}

func (f *formatter) block(body []Stmt, depth int) {
	if len(body) == 0 {
		f.sb.WriteString("{}")

		return
	}

	f.sb.WriteByte('{')
	f.newline(depth + 1)
	f.stmts(body, depth+1)
	f.newline(depth)
	f.sb.WriteByte('}')
}

func (f *formatter) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *VarDecl:
		if s.Constant {
			f.sb.WriteString("const ")
		} else {
			f.sb.WriteString("let ")
		}

		f.sb.WriteString(s.Name)

		if s.Value != nil {
			f.sb.WriteString(" = ")
			f.top(s.Value)
		}

		f.sb.WriteByte(';')

	case *FuncDecl:
		f.sb.WriteString("func ")
		f.sb.WriteString(s.Name)
		f.sb.WriteByte('(')
		f.sb.WriteString(strings.Join(s.Params, ", "))
		f.sb.WriteString(") ")
		f.block(s.Body, depth)

	case *ReturnDecl:
		f.sb.WriteString("return ")
		f.top(s.Arg)
		f.sb.WriteByte(';')

	case *IfDecl:
		f.sb.WriteString("if (")
		f.condition(s.Condition, depth)
		f.sb.WriteString(") ")
		f.block(s.Body, depth)

		if len(s.Else) > 0 {
			f.sb.WriteString(" else ")
			f.block(s.Else, depth)
		}

	case *AssignmentExpr:
		f.expr(s)

	case Expr:
		f.top(s)
		f.sb.WriteByte(';')
	}
}

// condition writes an if-condition. Expressions are written without a
// trailing separator.
func (f *formatter) condition(s Stmt, depth int) {
	if e, ok := s.(Expr); ok {
		f.top(e)

		return
	}

	f.stmt(s, depth)
}

func (f *formatter) expr(e Expr) {
	switch e := e.(type) {
	case *Identifier:
		f.sb.WriteString(e.Symbol)

	case *IntLiteral:
		f.sb.WriteString(strconv.FormatInt(int64(e.Value), 10))

	case *LongLiteral:
		f.sb.WriteString(strconv.FormatInt(e.Value, 10))

	case *StringLiteral:
		f.sb.WriteByte('"')
		f.sb.WriteString(e.Value)
		f.sb.WriteByte('"')

	case *ObjectLiteral:
		f.sb.WriteByte('{')

		for i, prop := range e.Properties {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.sb.WriteString(prop.Key)

			if !prop.Shorthand() {
				f.sb.WriteString(": ")
				f.top(prop.Value)
			}
		}

		f.sb.WriteByte('}')

	case *BinaryExpr:
		f.infix(e.Left, e.Operator, e.Right)

	case *LogicalExpr:
		f.infix(e.Left, e.Operator, e.Right)

	case *UnaryExpr:
		f.sb.WriteString(e.Operator)
		f.operand(e.Operand)

	case *MemberExpr:
		f.operand(e.Object)

		if e.Computed {
			f.sb.WriteByte('[')
			f.top(e.Property)
			f.sb.WriteByte(']')
		} else {
			f.sb.WriteByte('.')
			f.expr(e.Property)
		}

	case *CallExpr:
		f.operand(e.Callee)
		f.sb.WriteByte('(')

		for i, arg := range e.Args {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.expr(arg)
		}

		f.sb.WriteByte(')')

	case *AssignmentExpr:
		f.expr(e.Target)
		f.sb.WriteString(" = ")
		f.expr(e.Value)
		f.sb.WriteByte(';')
	}
}

// top writes e where a complete expression may appear. The outermost infix
// expression is left unparenthesized.
func (f *formatter) top(e Expr) {
	switch e := e.(type) {
	case *BinaryExpr:
		f.bare(e.Left, e.Operator, e.Right)
	case *LogicalExpr:
		f.bare(e.Left, e.Operator, e.Right)
	default:
		f.expr(e)
	}
}

func (f *formatter) infix(left Expr, op string, right Expr) {
	f.sb.WriteByte('(')
	f.bare(left, op, right)
	f.sb.WriteByte(')')
}

func (f *formatter) bare(left Expr, op string, right Expr) {
	f.operand(left)
	f.sb.WriteByte(' ')
	f.sb.WriteString(op)
	f.sb.WriteByte(' ')
	f.operand(right)
}

// operand writes e where only a primary or postfix expression may appear.
func (f *formatter) operand(e Expr) {
	switch e.(type) {
	case *ObjectLiteral, *AssignmentExpr, *UnaryExpr:
		f.sb.WriteByte('(')
		f.expr(e)
		f.sb.WriteByte(')')
	default:
		f.expr(e)
	}
}

// Print writes an indented dump of the program tree.
func (p *Program) Print(_ context.Context, w io.Writer) error {
	var sb strings.Builder

	printNode(&sb, "", p, 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func printNode(sb *strings.Builder, label string, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))

	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}

	if n == nil {
		sb.WriteString("<nil>\n")

		return
	}

	sb.WriteString(n.Kind().String())

	switch n := n.(type) {
	case *Program:
		sb.WriteByte('\n')
		printList(sb, "body", n.Body, depth+1)

	case *VarDecl:
		fmt.Fprintf(sb, " %s constant=%t\n", n.Name, n.Constant)

		if n.Value != nil {
			printNode(sb, "value", n.Value, depth+1)
		}

	case *FuncDecl:
		fmt.Fprintf(sb, " %s(%s)\n", n.Name, strings.Join(n.Params, ", "))
		printList(sb, "body", n.Body, depth+1)

	case *ReturnDecl:
		sb.WriteByte('\n')
		printNode(sb, "arg", n.Arg, depth+1)

	case *IfDecl:
		sb.WriteByte('\n')
		printNode(sb, "condition", n.Condition, depth+1)
		printList(sb, "body", n.Body, depth+1)
		printList(sb, "else", n.Else, depth+1)

	case *Identifier:
		fmt.Fprintf(sb, " %s\n", n.Symbol)

	case *IntLiteral:
		fmt.Fprintf(sb, " %d\n", n.Value)

	case *LongLiteral:
		fmt.Fprintf(sb, " %d\n", n.Value)

	case *StringLiteral:
		fmt.Fprintf(sb, " %q\n", n.Value)

	case *ObjectLiteral:
		sb.WriteByte('\n')

		for _, prop := range n.Properties {
			if prop.Shorthand() {
				sb.WriteString(strings.Repeat("  ", depth+1))
				sb.WriteString(prop.Key)
				sb.WriteString(" (shorthand)\n")
			} else {
				printNode(sb, prop.Key, prop.Value, depth+1)
			}
		}

	case *BinaryExpr:
		fmt.Fprintf(sb, " %s\n", n.Operator)
		printNode(sb, "left", n.Left, depth+1)
		printNode(sb, "right", n.Right, depth+1)

	case *LogicalExpr:
		fmt.Fprintf(sb, " %s\n", n.Operator)
		printNode(sb, "left", n.Left, depth+1)
		printNode(sb, "right", n.Right, depth+1)

	case *UnaryExpr:
		fmt.Fprintf(sb, " %s\n", n.Operator)
		printNode(sb, "operand", n.Operand, depth+1)

	case *MemberExpr:
		fmt.Fprintf(sb, " computed=%t\n", n.Computed)
		printNode(sb, "object", n.Object, depth+1)
		printNode(sb, "property", n.Property, depth+1)

	case *CallExpr:
		sb.WriteByte('\n')
		printNode(sb, "callee", n.Callee, depth+1)

		for i, arg := range n.Args {
			printNode(sb, "arg"+strconv.Itoa(i), arg, depth+1)
		}

	case *AssignmentExpr:
		sb.WriteByte('\n')
		printNode(sb, "target", n.Target, depth+1)
		printNode(sb, "value", n.Value, depth+1)
	}
}

func printList(sb *strings.Builder, label string, body []Stmt, depth int) {
	if len(body) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(label)
	sb.WriteString(":\n")

	for _, s := range body {
		printNode(sb, "", s, depth+1)
	}
}

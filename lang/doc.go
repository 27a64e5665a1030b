// Package lang implements the Sulfur scripting language: a lexer, a
// recursive-descent parser, and a tree-walking evaluator.
//
// # Pipeline
//
// Source text is split into tokens by [Tokenize], parsed into a [Program] by
// [ParseTokens] (or [ParseString], [ParseCached], [ParseReader]), and
// evaluated by an [Interpreter] against a root [Env] returned by
// [Interpreter.NewGlobalEnv]. [Run] performs all three steps.
//
//	v, err := lang.Run(ctx, `let x = 1 + 2; x;`)
//
// # Grammar
//
// Informal EBNF, loosest binding first:
//
//	Program     → Stmt* EOF
//	Stmt        → VarDecl | FuncDecl | IfDecl | ReturnDecl | Expr ';'?
//	VarDecl     → ('let' | 'const') Ident ('=' Expr)? ';'
//	FuncDecl    → 'func' Ident '(' Params? ')' Block
//	IfDecl      → 'if' '(' Stmt ')' Block ('else' Block)?
//	ReturnDecl  → 'return' Expr? ';'
//	Expr        → Or
//	Or          → And ('||' And)*
//	And         → Assign ('&&' Assign)*
//	Assign      → ObjOrCmp ('=' Assign ';')?
//	ObjOrCmp    → Object | Additive (CmpOp Additive)*
//	Additive    → Mult (('+' | '-') Mult)*
//	Mult        → Unary (('*' | '/' | '%') Unary)*
//	Unary       → '!' Unary | Postfix
//	Postfix     → Primary ('.' Ident | '[' Expr ']' | '(' Args? ')')*
//	Primary     → Ident | Int | String | '(' Expr ')'
//	Object      → '{' (Ident (':' Expr)? (',' Ident (':' Expr)?)* ','?)? '}'
//
// Assignment sits between logical-and and comparison, and it consumes its
// own terminating semicolon. It is therefore only usable in statement
// position.
//
// # Values
//
// Runtime values are Null, Int (32-bit), Int64, Boolean, String, Object,
// NativeFunction, and Function. Binary operators are defined only when both
// operands have the same type; every other combination evaluates to Null.
// The logical operators && and || always evaluate both operands.
//
// # Returns
//
// There is no exception-style unwinding. Inside a function body a
// conditional evaluates to a [DeferredBranch], which the call scans
// depth-first for the first return statement; a return found that way ends
// the call. A return at the top level of a body only supplies a value, so
// the statements after it still run and the call yields the value of the
// last one. At the top level of a program conditionals run in place and
// evaluate to Null.
//
// # Errors
//
// Every fault is fatal and is reported as an [*Error] that matches one of
// [ErrLex], [ErrParse], [ErrScope], [ErrCall], or [ErrArithmetic] with
// [errors.Is].
package lang

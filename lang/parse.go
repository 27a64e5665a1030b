package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// nearWindow is the number of upcoming tokens quoted in parse errors.
const nearWindow = 15

// ParseString parses a Program from source text.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	tokens, err := Tokenize(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return ParseTokens(ctx, tokens, opts...)
}

// ParseTokens parses a Program from a token sequence produced by [Tokenize].
func ParseTokens(ctx context.Context, tokens []Token, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		tokens = append(tokens[:n:n], Token{Kind: TokenEOF})
	}

	cfg.logger.TraceContext(ctx, "parse start",
		slog.Int("token_count", len(tokens)))

	p := &parser{tokens: tokens}

	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(prog.Body)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

// parseProgram parses: Stmt* EOF.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Body: make([]Stmt, 0)}

	for !p.at(TokenEOF) {
		stmt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

// parseStatement dispatches on the leading keyword. inFunc reports whether
// the statement is nested in a function body.
func (p *parser) parseStatement(inFunc bool) (Stmt, error) {
	switch p.peek().Kind {
	case TokenLet, TokenConst:
		return p.parseVarDecl()

	case TokenFunc:
		return p.parseFuncDecl()

	case TokenIf:
		return p.parseIfDecl(inFunc)

	case TokenReturn:
		if !inFunc {
			return nil, ErrReturnOutsideFunc.WithPosition(p.peek().Pos).
				With(slog.String("near", p.near()))
		}

		return p.parseReturnDecl()

	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.accept(TokenSemicolon)

		return expr, nil
	}
}

// parseVarDecl parses: ('let' | 'const') Identifier ('=' Expr)? ';'.
func (p *parser) parseVarDecl() (*VarDecl, error) {
	decl := p.next()
	constant := decl.Kind == TokenConst

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	if p.at(TokenSemicolon) {
		if constant {
			return nil, ErrConstWithoutValue.WithPosition(decl.Pos).
				With(slog.String("name", name.Text))
		}

		p.next()

		return &VarDecl{Name: name.Text}, nil
	}

	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return &VarDecl{Name: name.Text, Constant: constant, Value: value}, nil
}

// parseFuncDecl parses: 'func' Identifier Args Block.
func (p *parser) parseFuncDecl() (*FuncDecl, error) {
	p.next()

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	paramPos := p.peek().Pos

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	params := make([]string, 0, len(args))

	for _, arg := range args {
		id, ok := arg.(*Identifier)
		if !ok {
			return nil, ErrInvalidParameter.WithPosition(paramPos).
				With(
					slog.String("function", name.Text),
					slog.String("found", arg.Kind().String()),
				)
		}

		params = append(params, id.Symbol)
	}

	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}

	return &FuncDecl{Name: name.Text, Params: params, Body: body}, nil
}

// parseIfDecl parses: 'if' '(' Stmt ')' Block ('else' Block)?.
func (p *parser) parseIfDecl(inFunc bool) (*IfDecl, error) {
	p.next()

	if _, err := p.expect(TokenOpenParen); err != nil {
		return nil, err
	}

	cond, err := p.parseStatement(inFunc)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(inFunc)
	if err != nil {
		return nil, err
	}

	decl := &IfDecl{Condition: cond, Body: body}

	if p.accept(TokenElse) {
		decl.Else, err = p.parseBlock(inFunc)
		if err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// parseReturnDecl parses: 'return' Expr? ';'.
func (p *parser) parseReturnDecl() (*ReturnDecl, error) {
	p.next()

	if p.accept(TokenSemicolon) {
		return &ReturnDecl{Arg: &Identifier{Symbol: "null"}}, nil
	}

	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return &ReturnDecl{Arg: arg}, nil
}

// parseBlock parses: '{' Stmt* '}'.
func (p *parser) parseBlock(inFunc bool) ([]Stmt, error) {
	if _, err := p.expect(TokenOpenBrace); err != nil {
		return nil, err
	}

	body := make([]Stmt, 0)

	for !p.at(TokenCloseBrace) && !p.at(TokenEOF) {
		stmt, err := p.parseStatement(inFunc)
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	if _, err := p.expect(TokenCloseBrace); err != nil {
		return nil, err
	}

	return body, nil
}

// Expressions, loosest binding first.

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	return p.parseLogical("||", p.parseAnd)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseLogical("&&", p.parseAssignment)
}

func (p *parser) parseLogical(op string, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.peek().Is(TokenLogicalOperator, op) {
		p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &LogicalExpr{Left: left, Right: right, Operator: op}
	}

	return left, nil
}

// parseAssignment parses: ObjectOrComparison ('=' Assignment ';')?.
// The terminating separator belongs to the assignment itself.
func (p *parser) parseAssignment() (Expr, error) {
	target, err := p.parseObjectOrComparison()
	if err != nil {
		return nil, err
	}

	if !p.accept(TokenEquals) {
		return target, nil
	}

	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return &AssignmentExpr{Target: target, Value: value}, nil
}

func (p *parser) parseObjectOrComparison() (Expr, error) {
	if p.at(TokenOpenBrace) {
		return p.parseObject()
	}

	return p.parseBinary(p.parseAdditive, "==", "!=", ">", "<", ">=", "<=")
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseBinary(p.parseMultiplicative, "+", "-")
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(p.parseUnary, "*", "/", "%")
}

func (p *parser) parseBinary(operand func() (Expr, error), ops ...string) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.peek().Is(TokenBinaryOperator, ops...) {
		op := p.next().Text

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Left: left, Right: right, Operator: op}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if !p.at(TokenUnaryOperator) {
		return p.parseCallMember()
	}

	op := p.next().Text

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{Operand: operand, Operator: op}, nil
}

// parseCallMember parses a primary followed by any chain of '.', '[', '('.
func (p *parser) parseCallMember() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case TokenDot:
			p.next()

			prop, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}

			expr = &MemberExpr{Object: expr, Property: &Identifier{Symbol: prop.Text}}

		case TokenOpenBracket:
			p.next()

			prop, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(TokenCloseBracket); err != nil {
				return nil, err
			}

			expr = &MemberExpr{Object: expr, Property: prop, Computed: true}

		case TokenOpenParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			expr = &CallExpr{Callee: expr, Args: args}

		default:
			return expr, nil
		}
	}
}

// parseArgs parses: '(' (Assignment (',' Assignment)*)? ')'.
func (p *parser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(TokenOpenParen); err != nil {
		return nil, err
	}

	args := make([]Expr, 0)

	if p.accept(TokenCloseParen) {
		return args, nil
	}

	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.accept(TokenComma) {
			break
		}
	}

	if _, err := p.expect(TokenCloseParen); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenIdentifier:
		p.next()

		return &Identifier{Symbol: tok.Text}, nil

	case TokenInt:
		p.next()

		n, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return nil, ErrIntegerRange.WithPosition(tok.Pos).
				With(slog.String("literal", tok.Text))
		}

		return &IntLiteral{Value: int32(n)}, nil

	case TokenLong:
		p.next()

		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, ErrIntegerRange.WithPosition(tok.Pos).
				With(slog.String("literal", tok.Text))
		}

		return &LongLiteral{Value: n}, nil

	case TokenString:
		p.next()

		return &StringLiteral{Value: tok.Text}, nil

	case TokenOpenParen:
		p.next()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenCloseParen); err != nil {
			return nil, err
		}

		return expr, nil

	default:
		return nil, p.unexpected("expression")
	}
}

// parseObject parses: '{' (Property (',' Property)* ','?)? '}'.
func (p *parser) parseObject() (*ObjectLiteral, error) {
	p.next()

	obj := &ObjectLiteral{Properties: make([]Property, 0)}

	for !p.at(TokenCloseBrace) {
		key, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}

		prop := Property{Key: key.Text}

		if p.accept(TokenColon) {
			prop.Value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		obj.Properties = append(obj.Properties, prop)

		if !p.at(TokenCloseBrace) {
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
	}

	p.next()

	return obj, nil
}

// Helper methods

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos]
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

// accept consumes the next token if it has the given kind.
func (p *parser) accept(kind TokenKind) bool {
	if !p.at(kind) {
		return false
	}

	p.next()

	return true
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if !p.at(kind) {
		return Token{}, p.unexpected(kind.String())
	}

	return p.next(), nil
}

func (p *parser) unexpected(expected string) error {
	tok := p.peek()

	return ErrUnexpectedToken.WithPosition(tok.Pos).With(
		slog.String("expected", expected),
		slog.String("found", tok.String()),
		slog.String("near", p.near()),
	)
}

// near returns the text of the next few tokens for diagnostics.
func (p *parser) near() string {
	end := min(p.pos+nearWindow, len(p.tokens))
	part := make([]string, 0, end-p.pos)

	for _, tok := range p.tokens[p.pos:end] {
		if tok.Kind == TokenEOF {
			break
		}

		if tok.Kind == TokenString {
			part = append(part, strconv.Quote(tok.Text))
		} else {
			part = append(part, tok.Text)
		}
	}

	return strings.Join(part, " ")
}

package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/sulfur/lang"
)

// nativeParams names the parameters of each native function. Natives carry
// no parameter list of their own.
var nativeParams = map[string][]string{
	"print":         {"...values"},
	"println":       {"...values"},
	"time":          {},
	"consoleRead":   {},
	"consoleClear":  {},
	"strLen":        {"...strings"},
	"strSetAtIndex": {"str", "index", "char"},
	"strContains":   {"str", "substr"},
	"strRepeat":     {"str", "count"},
}

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee expression (e.g., "math.max")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. Parentheses inside string literals are
// ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Positions of unclosed open parens before the cursor, outside strings.
	var (
		open     []int
		inString bool
	)

	for i, r := range input[:cursor] {
		switch {
		case r == '"':
			inString = !inString
		case inString:
		case r == '(':
			open = append(open, i)
		case r == ')' && len(open) > 0:
			open = open[:len(open)-1]
		}
	}

	if len(open) == 0 {
		return functionCall{}
	}

	openParenPos := open[len(open)-1]

	// Walk backward collecting identifier characters and dots.
	nameStart := openParenPos

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if r != '.' && !unicode.IsLetter(r) {
			break
		}

		nameStart -= size
	}

	funcName := strings.Trim(input[nameStart:openParenPos], ".")
	if funcName == "" {
		return functionCall{}
	}

	// Count commas at depth 0 in the argument list.
	argIndex, depth := 0, 0
	inString = false

	for _, r := range input[openParenPos+1 : cursor] {
		switch {
		case r == '"':
			inString = !inString
		case inString:
		case r == '(' || r == '{':
			depth++
		case r == ')' || r == '}':
			depth--
		case r == ',' && depth == 0:
			argIndex++
		}
	}

	return functionCall{
		name:     funcName,
		argIndex: argIndex,
		inCall:   true,
	}
}

// getSignature returns the signature of the function bound to the dotted
// name in env, together with its parameter names. It returns an empty
// signature if the name does not resolve to a function.
func getSignature(env *lang.Env, name string) (signature string, params []string) {
	v, ok := resolvePath(env, name)
	if !ok {
		return "", nil
	}

	switch fn := v.(type) {
	case *lang.Function:
		return formatSignature(name, fn.Params), fn.Params

	case *lang.NativeFunction:
		params, ok := nativeParams[fn.Name]
		if !ok {
			params = []string{"...args"}
		}

		return formatSignature(name, params), params
	}

	return "", nil
}

// formatSignature formats a function signature with parameter names.
func formatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every trailing argument.
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

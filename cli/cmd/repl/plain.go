package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
)

// ctrlLeader introduces a control command on a plain input line.
const ctrlLeader = ":"

// RunLines reads statements from in and runs each in the session until in is
// exhausted or a quit command is read. Input is accumulated across lines
// while it has unclosed brackets. Results and errors are written to out.
//
// The session's console should read from the same in so that consoleRead
// consumes the lines following the statement that called it.
func RunLines(
	ctx context.Context,
	session Session,
	in *bufio.Reader,
	out io.Writer,
	logger log.Logger,
) error {
	if in == nil {
		return ErrNoInput
	}

	var pending strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		eof := err != nil
		line = strings.TrimRight(line, "\r\n")

		if pending.Len() == 0 {
			if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), ctrlLeader); ok {
				if quit := runLineCommand(out, session, cmd); quit {
					return nil
				}

				if eof {
					return nil
				}

				continue
			}
		}

		pending.WriteString(line)
		pending.WriteByte('\n')

		src := pending.String()
		if !eof && unbalanced(ctx, src) {
			continue
		}

		pending.Reset()

		if strings.TrimSpace(src) != "" {
			logger.TraceContext(ctx, "repl eval", slog.String("input", src))

			result, err := session.exec(ctx, src)
			writeReport(out, session, result, err)
		}

		if eof {
			return nil
		}
	}
}

// unbalanced reports whether src has more opening than closing brackets.
// Input that does not tokenize is treated as complete so that the error is
// reported.
func unbalanced(ctx context.Context, src string) bool {
	tokens, err := lang.Tokenize(ctx, src)
	if err != nil {
		return false
	}

	depth := 0

	for _, tok := range tokens {
		switch tok.Kind {
		case lang.TokenOpenBrace, lang.TokenOpenParen, lang.TokenOpenBracket:
			depth++
		case lang.TokenCloseBrace, lang.TokenCloseParen, lang.TokenCloseBracket:
			depth--
		}
	}

	return depth > 0
}

// writeReport writes the console output captured during an evaluation
// followed by its result or error.
func writeReport(w io.Writer, session Session, result lang.Value, err error) {
	if out := session.drain(); out != "" {
		fmt.Fprintln(w, out)
	}

	switch {
	case err != nil:
		fmt.Fprintln(w, "error: "+err.Error())
	case !lang.IsNull(result):
		fmt.Fprintln(w, lang.Inspect(result))
	}
}

// runLineCommand runs a control command read in plain mode and reports
// whether the session should end.
func runLineCommand(w io.Writer, session Session, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		fmt.Fprintln(w, strings.TrimSpace(helpMessage()))

	case "l", "list":
		all := len(parts) > 1 && parts[1] == "all"
		fmt.Fprintln(w, listPlain(session.Env, all))

	default:
		fmt.Fprintln(w, "unknown command: "+parts[0])
	}

	return false
}

// listPlain lists bindings without terminal styling.
func listPlain(env *lang.Env, all bool) string {
	var b strings.Builder

	for _, binding := range bindings(env, all) {
		fmt.Fprintf(&b, "%-5s %s %s\n", binding.kind, binding.name, preview(binding.value))
	}

	if b.Len() == 0 {
		return "(no bindings)"
	}

	return strings.TrimSuffix(b.String(), "\n")
}

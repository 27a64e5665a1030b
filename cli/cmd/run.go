package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
)

// Run executes Sulfur scripts.
type Run struct {
	Output string `default:""  enum:",native,json,yaml" help:"Print the result of the last script (${enum})." placeholder:"FORMAT" short:"o"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml output."        short:"i"`

	Scripts []string `arg:"" help:"Script files or names on the search path, '-' for stdin." name:"script" optional:""`
}

// Run executes the run command. With no scripts, the program is read from
// standard input. Scripts run in order in one shared root scope, so later
// scripts see the declarations of earlier ones.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := r.Scripts
	if len(names) == 0 {
		names = []string{stdin}
	}

	scripts, closeAll, err := openScripts(ctx, names)
	if err != nil {
		return err
	}
	defer closeAll()

	streams := streamsFrom(ctx)

	interp, env, err := newSession(ctx, streams.In, streams.Out)
	if err != nil {
		return err
	}

	result := lang.Null

	for _, s := range scripts {
		log.DebugContext(ctx, "run script", slog.String("script", s.name))

		result, err = runScript(ctx, interp, env, s)
		if err != nil {
			return err
		}
	}

	return writeValue(ctx, streams.Out, result, r.Output, r.Indent)
}

func runScript(
	ctx context.Context,
	interp *lang.Interpreter,
	env *lang.Env,
	s script,
) (lang.Value, error) {
	prog, err := lang.ParseReader(ctx, s.r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, ErrRunScript.With(slog.String("script", s.name)).Wrap(err)
	}

	v, err := interp.Evaluate(ctx, prog, env)
	if err != nil {
		return nil, ErrRunScript.With(slog.String("script", s.name)).Wrap(err)
	}

	return v, nil
}

// writeValue writes v to w in the named format. An empty format writes
// nothing.
func writeValue(
	ctx context.Context,
	w io.Writer,
	v lang.Value,
	format string,
	indent int,
) error {
	var err error

	switch format {
	case "":
		return nil
	case "native":
		_, err = fmt.Fprintln(w, lang.Inspect(v))
	case "json":
		err = lang.FormatValueJSON(ctx, w, v, indent)
	case "yaml":
		err = lang.FormatValueYAML(ctx, w, v, indent)
	}

	if err != nil {
		return ErrWriteResult.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}

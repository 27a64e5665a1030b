package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
)

// Fmt parses a script and writes it in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as Sulfur source (default)."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// Input is the positional argument shared by the fmt subcommands.
type Input struct {
	Source string `arg:"" default:"-" help:"Script file or name on the search path, '-' for stdin." name:"source"`
}

// read returns the text of the source.
func (s Input) read(ctx context.Context) (string, error) {
	scripts, closeAll, err := openScripts(ctx, []string{s.Source})
	if err != nil {
		return "", err
	}
	defer closeAll()

	data, err := io.ReadAll(scripts[0].r)
	if err != nil {
		return "", ErrOpenScript.With(slog.String("script", s.Source)).Wrap(err)
	}

	return string(data), nil
}

// parse reads and parses the source.
func (s Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	text, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseCached(ctx, text, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, ErrFormatSource.With(
			slog.String("script", s.Source),
			slog.String("format", format),
		).Wrap(err)
	}

	return prog, nil
}

// formatted runs one fmt subcommand: parse the source, then write it with
// fn.
func (s Input) formatted(
	ctx context.Context,
	format string,
	fn func(*lang.Program, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := s.parse(ctx, format)
	if err != nil {
		return err
	}

	if err := fn(prog, streamsFrom(ctx).Out); err != nil {
		return ErrFormatSource.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}

// Native formats input as Sulfur source.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 writes the program on one line." short:"i"`

	Input `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	return f.formatted(ctx, "native", func(p *lang.Program, w io.Writer) error {
		return p.Format(ctx, w, f.Indent)
	})
}

// AST formats input as an indented syntax tree.
type AST struct {
	Input `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return a.formatted(ctx, "ast", func(p *lang.Program, w io.Writer) error {
		return p.Print(ctx, w)
	})
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 writes compact JSON." short:"i"`

	Input `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return j.formatted(ctx, "json", func(p *lang.Program, w io.Writer) error {
		return p.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width." short:"i"`

	Input `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return y.formatted(ctx, "yaml", func(p *lang.Program, w io.Writer) error {
		return p.FormatYAML(ctx, w, y.Indent)
	})
}

// Tokens lists the tokens of the source, one per line with its position.
type Tokens struct {
	Input `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := t.read(ctx)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(ctx, text, lang.WithLogger(log.Default()))
	if err != nil {
		return ErrFormatSource.With(
			slog.String("script", t.Source),
			slog.String("format", "tokens"),
		).Wrap(err)
	}

	tw := tabwriter.NewWriter(streamsFrom(ctx).Out, 0, 4, 2, ' ', 0)

	for _, tok := range tokens {
		if tok.Kind == lang.TokenEOF {
			fmt.Fprintf(tw, "%s\t%s\n", tok.Pos, tok.Kind)

			continue
		}

		fmt.Fprintf(tw, "%s\t%s\t%q\n", tok.Pos, tok.Kind, tok.Text)
	}

	return tw.Flush()
}

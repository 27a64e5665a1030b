package cmd

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/sulfur/cli/cmd/repl"
	"github.com/ardnew/sulfur/log"
)

// HistoryFile is the name of the REPL history file in the cache directory.
const HistoryFile = "history.utf8"

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file." name:"no-history"`
	Plain     bool `help:"Read statements line by line without the interactive editor." short:"P"`
}

// Run executes the repl command. The interactive editor is used when
// standard input is a terminal; otherwise statements are read line by line.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	if r.Plain || !isTerminal(streams.In) {
		return r.runPlain(ctx, streams)
	}

	// The terminal belongs to the editor, so console reads see no input and
	// console writes are captured and printed after each statement.
	var output bytes.Buffer

	interp, env, err := newSession(ctx, strings.NewReader(""), &output)
	if err != nil {
		return err
	}

	historyPath := ""
	if !r.NoHistory {
		if dir := runtimeFrom(ctx).CacheDir; dir != "" {
			historyPath = filepath.Join(dir, HistoryFile)
		}
	}

	log.DebugContext(ctx, "repl", slog.String("history", historyPath))

	return repl.Run(ctx, repl.Session{Interp: interp, Env: env, Output: &output},
		historyPath, log.Default())
}

func (r *Repl) runPlain(ctx context.Context, streams Streams) error {
	in := bufio.NewReader(streams.In)

	interp, env, err := newSession(ctx, in, streams.Out)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "repl", slog.Bool("plain", true))

	return repl.RunLines(ctx, repl.Session{Interp: interp, Env: env}, in, streams.Out, log.Default())
}

// isTerminal reports whether r is a character device.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()

	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
	"github.com/ardnew/sulfur/pkg"
)

type (
	contextKey struct{}
	runtimeKey struct{}
	streamsKey struct{}
)

// stdin is the script name that selects standard input.
const stdin = "-"

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// Runtime holds the interpreter settings shared by every command.
type Runtime struct {
	// Options configure each interpreter a command creates.
	Options []lang.Option

	// Globals are declared as constants in every root scope, after the
	// native library.
	Globals map[string]lang.Value

	// SearchPath lists directories consulted when a script name does not
	// refer to an existing file.
	SearchPath []string

	// CacheDir holds transient files such as the REPL history.
	CacheDir string
}

// WithRuntime returns a new context.Context containing rt.
func WithRuntime(ctx context.Context, rt Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

func runtimeFrom(ctx context.Context) Runtime {
	rt, _ := ctx.Value(runtimeKey{}).(Runtime)

	return rt
}

// Streams are the standard streams used by commands and by the console
// natives of the interpreters they create.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context containing s. Nil streams fall
// back to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// newSession creates an interpreter and its root scope for the runtime in
// ctx. Console natives read and write the given streams.
func newSession(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
) (*lang.Interpreter, *lang.Env, error) {
	rt := runtimeFrom(ctx)

	opts := slices.Concat(
		[]lang.Option{lang.WithLogger(log.Default())},
		rt.Options,
		[]lang.Option{lang.WithConsole(lang.Console{In: in, Out: out})},
	)

	interp := lang.NewInterpreter(opts...)
	env := interp.NewGlobalEnv()

	for _, name := range slices.Sorted(maps.Keys(rt.Globals)) {
		if err := env.Declare(name, rt.Globals[name], true); err != nil {
			return nil, nil, err
		}

		log.TraceContext(ctx, "declare global",
			slog.String("name", name),
			slog.String("value", lang.Inspect(rt.Globals[name])),
		)
	}

	return interp, env, nil
}

// script is a resolved source of Sulfur code.
type script struct {
	name string
	r    io.Reader
}

// openScripts resolves and opens each named script. The name "-" selects
// standard input. A file named more than once, whether through links or
// different paths, is opened once, and standard input is always ordered
// last. The returned function closes every opened file.
func openScripts(
	ctx context.Context,
	names []string,
) ([]script, func(), error) {
	var (
		scripts  []script
		files    []*os.File
		hasStdin bool
	)

	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	seen := make(map[fileKey]struct{})
	searchPath := runtimeFrom(ctx).SearchPath

	for _, name := range names {
		if name == stdin {
			hasStdin = true

			continue
		}

		path, err := resolveScript(name, searchPath)
		if err != nil {
			closeAll()

			return nil, nil, err
		}

		f, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeAll()

			return nil, nil, ErrOpenScript.With(slog.String("script", name)).Wrap(err)
		}

		if !ok {
			log.DebugContext(ctx, "skipping duplicate script", slog.String("path", path))

			continue
		}

		files = append(files, f)
		scripts = append(scripts, script{name: path, r: f})
	}

	if hasStdin {
		scripts = append(scripts, script{name: stdin, r: streamsFrom(ctx).In})
	}

	return scripts, closeAll, nil
}

// resolveScript locates the file for a script name. A name that refers to
// an existing file is used as given. Otherwise each directory of the search
// path is tried in order, first with the name and then with the name plus
// [pkg.ScriptExt].
func resolveScript(name string, searchPath []string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPath {
			for _, candidate := range []string{name, name + pkg.ScriptExt} {
				path := filepath.Join(dir, candidate)
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", ErrScriptNotFound.With(
		slog.String("script", name),
		slog.Any("path", searchPath),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path unless a file with the same device
// and inode is already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			_ = f.Close()

			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	return f, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/expr-lang/expr"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
	"github.com/ardnew/sulfur/pkg"
)

var (
	// ErrDefineName is returned when a --define name is not a valid
	// identifier.
	ErrDefineName = errors.New("invalid definition name")

	// ErrDefineExpr is returned when a --define expression fails to
	// compile or run.
	ErrDefineExpr = errors.New("invalid definition expression")
)

// defineEnv is the environment available to --define expressions.
var defineEnv = sync.OnceValue(
	func() map[string]any {
		hostname, _ := os.Hostname()

		return map[string]any{
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
			"hostname": hostname,
			"version":  pkg.Version(),
			"env":      os.Getenv,
			"cwd": func() string {
				dir, _ := os.Getwd()

				return dir
			},
		}
	},
)

// defines evaluates each expression in defs and converts the result into a
// value suitable for binding as a global constant.
func defines(defs map[string]string) (map[string]lang.Value, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	env := maps.Clone(defineEnv())
	globals := make(map[string]lang.Value, len(defs))

	for _, name := range slices.Sorted(maps.Keys(defs)) {
		if !lang.IsIdentifier(name) {
			return nil, fmt.Errorf("%w: %q", ErrDefineName, name)
		}

		v, err := define(defs[name], env)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDefineExpr, name, err)
		}

		globals[name] = v
	}

	return globals, nil
}

func define(source string, env map[string]any) (lang.Value, error) {
	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, err
	}

	v, err := lang.FromNative(out)
	if err != nil {
		return nil, err
	}

	log.Debug("define",
		slog.String("source", source),
		slog.String("value", lang.Inspect(v)),
	)

	return v, nil
}

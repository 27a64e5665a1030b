package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sulfur/cli/cmd"
	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Top-level keys name flags. Nested mappings are joined to their parent key
// with a hyphen, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A file that does not parse is reported and otherwise ignored.
func resolveYAML(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var m map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &m); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("format", "yaml"),
				slog.String("error", err.Error()),
			)

			return flagValues{}, nil
		}

		return flagValues(m), nil
	}
}

// resolveSulfur is a [kong.ConfigurationLoader] for configuration files
// written in Sulfur. The script runs in a fresh root scope with console
// output discarded, and the object bound to name supplies the flag values.
//
// Identifiers cannot contain hyphens, so keys are matched in camel case as
// well:
//
//	const config = {
//	  logLevel: "debug",
//	  log: { pretty: false },
//	  maxCallDepth: 512,
//	};
//
// A script that fails, or that leaves name unbound or bound to something
// other than an object, is reported and otherwise ignored.
func resolveSulfur(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("format", "sulfur"),
				slog.Any("error", err),
			)

			return flagValues{}, nil
		}

		in := lang.NewInterpreter(
			lang.WithConsole(lang.Console{
				In:  strings.NewReader(""),
				Out: io.Discard,
			}),
		)
		env := in.NewGlobalEnv()

		if _, err := in.Evaluate(ctx, prog, env); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("format", "sulfur"),
				slog.Any("error", err),
			)

			return flagValues{}, nil
		}

		v, ok := env.Lookup(name)
		if !ok {
			return flagValues{}, nil
		}

		m, ok := lang.ToNative(v).(map[string]any)
		if !ok {
			log.WarnContext(ctx, "configuration is not an object",
				slog.String("name", name),
				slog.String("type", v.Type().String()),
			)

			return flagValues{}, nil
		}

		return flagValues(m), nil
	}
}

// flagValues implements [kong.Resolver] over a decoded configuration map.
type flagValues map[string]any

// Validate implements [kong.Resolver].
func (flagValues) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r flagValues) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := r.lookup(flag.Name); ok {
		return normalize(v), nil
	}

	return nil, nil
}

// lookup finds the value for a hyphenated flag name, first as a single key
// and then by descending into nested maps at each hyphen.
func (r flagValues) lookup(name string) (any, bool) {
	for _, key := range keyForms(name) {
		if v, ok := r[key]; ok {
			return v, true
		}
	}

	for i, c := range name {
		if c != '-' {
			continue
		}

		for _, key := range keyForms(name[:i]) {
			if sub, ok := r[key].(map[string]any); ok {
				if v, ok := flagValues(sub).lookup(name[i+1:]); ok {
					return v, true
				}
			}
		}
	}

	return nil, false
}

// keyForms returns the spellings under which a flag name may appear in a
// configuration file.
func keyForms(name string) []string {
	forms := []string{name}

	if strings.Contains(name, "-") {
		forms = append(forms, strings.ReplaceAll(name, "-", "_"), cmd.ConfigKey(name))
	}

	return forms
}

// normalize converts numbers to strings, which kong requires for parsing.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}

		return out
	default:
		return v
	}
}

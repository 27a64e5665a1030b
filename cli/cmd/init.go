package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sulfur/lang"
	"github.com/ardnew/sulfur/log"
	"github.com/ardnew/sulfur/pkg"
	"github.com/ardnew/sulfur/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Configuration file formats and their extensions.
const (
	ConfigSulfur = "sulfur"
	ConfigYAML   = "yaml"
)

// ConfigExt maps each configuration file format to its file extension.
var ConfigExt = map[string]string{
	ConfigSulfur: pkg.ScriptExt,
	ConfigYAML:   ".yaml",
}

// Init generates a default configuration file with current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file." short:"f"`
	Format string `default:"sulfur" enum:"sulfur,yaml" help:"Configuration file format (${enum})."`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	base, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	confPath := base + ConfigExt[i.Format]

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	var buf bytes.Buffer
	if err := i.write(ctx, &buf, ktx); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, buf.Bytes(), 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format),
	)

	return nil
}

func (i *Init) write(ctx context.Context, w io.Writer, ktx *kong.Context) error {
	values := configValues(ktx, i.Format)

	switch i.Format {
	case ConfigYAML:
		data, err := yaml.MarshalContext(ctx, values, yaml.Indent(defaultConfigIndent))
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err

	default:
		return FormatSulfurConfig(ctx, w, ConfigIdentifier, values)
	}
}

// configValues collects the current value of every configurable flag,
// keyed the way the given configuration format spells flag names.
func configValues(ktx *kong.Context, format string) map[string]any {
	skip := []string{"help", "version", profile.Tag}
	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		v := flagNative(ktx.FlagValue(flag))
		if v == nil {
			continue
		}

		key := flag.Name
		if format == ConfigSulfur {
			if _, isList := v.([]string); isList {
				log.Warn("flag not representable in configuration",
					slog.String("flag", flag.Name),
					slog.String("format", format),
				)

				continue
			}

			key = ConfigKey(flag.Name)
		}

		values[key] = v
	}

	return values
}

// flagNative converts a flag value to a plain value for a configuration
// file. Empty values yield nil.
func flagNative(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		if v == "" {
			return nil
		}

		return v
	case []string:
		if len(v) == 0 {
			return nil
		}

		return v
	case map[string]string:
		if len(v) == 0 {
			return nil
		}

		return v
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	default:
		return fmt.Sprint(v)
	}
}

// ConfigKey returns the spelling of a hyphenated flag name that is a valid
// Sulfur identifier: "log-time-layout" becomes "logTimeLayout".
func ConfigKey(flag string) string {
	var sb strings.Builder

	upper := false

	for _, c := range flag {
		switch {
		case c == '-' || c == '_':
			upper = true
		case upper:
			sb.WriteRune(unicode.ToUpper(c))

			upper = false
		default:
			sb.WriteRune(c)
		}
	}

	return sb.String()
}

// FormatSulfurConfig writes values as a Sulfur script that binds name to an
// object holding them.
func FormatSulfurConfig(
	ctx context.Context,
	w io.Writer,
	name string,
	values map[string]any,
) error {
	obj, err := lang.FromNative(values)
	if err != nil {
		return err
	}

	value, err := literal(obj)
	if err != nil {
		return err
	}

	prog := &lang.Program{Body: []lang.Stmt{
		&lang.VarDecl{Name: name, Constant: true, Value: value},
	}}

	return prog.Format(ctx, w, defaultConfigIndent)
}

// literal returns an expression that evaluates to v. Strings holding a
// double quote have no literal form.
func literal(v lang.Value) (lang.Expr, error) {
	switch v := v.(type) {
	case lang.Int:
		if v < 0 {
			return &lang.BinaryExpr{
				Left:     &lang.IntLiteral{Value: 0},
				Operator: "-",
				Right:    &lang.IntLiteral{Value: -int32(v)},
			}, nil
		}

		return &lang.IntLiteral{Value: int32(v)}, nil
	case lang.Int64:
		return &lang.LongLiteral{Value: int64(v)}, nil
	case lang.String:
		if strings.ContainsRune(string(v), '"') {
			return nil, ErrConfigValue.With(slog.String("value", string(v)))
		}

		return &lang.StringLiteral{Value: string(v)}, nil
	case lang.Boolean:
		return &lang.Identifier{Symbol: v.String()}, nil
	case *lang.Object:
		lit := &lang.ObjectLiteral{}

		for key, e := range v.All() {
			value, err := literal(e)
			if err != nil {
				return nil, err
			}

			lit.Properties = append(lit.Properties, lang.Property{Key: key, Value: value})
		}

		return lit, nil
	default:
		return &lang.Identifier{Symbol: "null"}, nil
	}
}

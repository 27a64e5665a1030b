package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sulfur/lang"
)

type initTestCLI struct {
	LogLevel     string            `default:"info"`
	MaxCallDepth int               `default:"0"`
	Pretty       bool              `negatable:""`
	Include      []string          `short:"I"`
	Define       map[string]string `short:"D"`
	Secret       string            `default:"x" hidden:""`
}

// initContext parses args against a small CLI whose configuration path has
// the given base, and returns a context holding the result.
func initContext(t *testing.T, base string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: base})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInitSulfur(t *testing.T) {
	base := filepath.Join(t.TempDir(), "config")
	ctx := initContext(t, base,
		"--log-level=debug", "--max-call-depth=-3", "-D", "tag=v1", "-I", "/opt/lib")

	if err := (&Init{Format: ConfigSulfur}).Run(ctx); err != nil {
		t.Fatalf("Init.Run() error = %v", err)
	}

	content, err := os.ReadFile(base + ".sf")
	if err != nil {
		t.Fatal(err)
	}

	v, err := lang.Run(ctx, string(content))
	if err != nil {
		t.Fatalf("generated configuration does not run: %v\n%s", err, content)
	}

	obj, ok := v.(*lang.Object)
	if !ok {
		t.Fatalf("configuration evaluated to %s, want an object", lang.Inspect(v))
	}

	want := map[string]lang.Value{
		"logLevel":     lang.String("debug"),
		"maxCallDepth": lang.Int(-3),
		"pretty":       lang.Boolean(false),
	}

	for key, wantValue := range want {
		if got, _ := obj.Get(key); got != wantValue {
			t.Errorf("%s = %s, want %s", key, lang.Inspect(got), lang.Inspect(wantValue))
		}
	}

	define, _ := obj.Get("define")
	if d, ok := define.(*lang.Object); !ok || d.Len() != 1 {
		t.Errorf("define = %s, want one entry", lang.Inspect(define))
	} else if tag, _ := d.Get("tag"); tag != lang.String("v1") {
		t.Errorf("define.tag = %s", lang.Inspect(tag))
	}

	for _, skipped := range []string{"include", "secret", "help"} {
		if _, ok := obj.Get(skipped); ok {
			t.Errorf("configuration includes %q", skipped)
		}
	}
}

func TestInitYAML(t *testing.T) {
	base := filepath.Join(t.TempDir(), "config")
	ctx := initContext(t, base, "--no-pretty", "-I", "/opt/lib", "-I", "/srv/lib")

	if err := (&Init{Format: ConfigYAML}).Run(ctx); err != nil {
		t.Fatalf("Init.Run() error = %v", err)
	}

	content, err := os.ReadFile(base + ".yaml")
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		LogLevel     string   `yaml:"log-level"`
		MaxCallDepth int      `yaml:"max-call-depth"`
		Pretty       bool     `yaml:"pretty"`
		Include      []string `yaml:"include"`
	}

	if err := yaml.Unmarshal(content, &got); err != nil {
		t.Fatalf("generated YAML does not parse: %v\n%s", err, content)
	}

	if got.LogLevel != "info" || got.MaxCallDepth != 0 || got.Pretty ||
		len(got.Include) != 2 || got.Include[1] != "/srv/lib" {
		t.Errorf("unexpected configuration: %+v\n%s", got, content)
	}
}

func TestInitExisting(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		wantErr error
	}{
		{name: "refuse", wantErr: ErrFileExists},
		{name: "force", force: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "config")
			if err := os.WriteFile(base+".sf", []byte("old"), 0o600); err != nil {
				t.Fatal(err)
			}

			err := (&Init{Force: tt.force, Format: ConfigSulfur}).Run(initContext(t, base))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				if data, _ := os.ReadFile(base + ".sf"); string(data) != "old" {
					t.Error("existing file was modified")
				}

				return
			}

			if err != nil {
				t.Fatalf("error = %v", err)
			}

			if data, _ := os.ReadFile(base + ".sf"); string(data) == "old" {
				t.Error("existing file was not replaced")
			}
		})
	}
}

func TestConfigKey(t *testing.T) {
	tests := map[string]string{
		"include":         "include",
		"log-level":       "logLevel",
		"log-time-layout": "logTimeLayout",
		"max_call_depth":  "maxCallDepth",
		"":                "",
	}

	for in, want := range tests {
		if got := ConfigKey(in); got != want {
			t.Errorf("ConfigKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlagNative(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"string", "text", "text"},
		{"empty string", "", nil},
		{"empty list", []string{}, nil},
		{"empty map", map[string]string{}, nil},
		{"int", 7, int64(7)},
		{"uint", uint8(9), uint64(9)},
		{"stringer", time.Second, "1s"},
		{"other", 1.5, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagNative(tt.in); got != tt.want {
				t.Errorf("flagNative(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSulfurConfig(t *testing.T) {
	var buf bytes.Buffer

	values := map[string]any{
		"big":    int64(1) << 40,
		"flag":   true,
		"nested": map[string]any{"neg": -5, "s": "plain text"},
	}

	if err := FormatSulfurConfig(t.Context(), &buf, "settings", values); err != nil {
		t.Fatalf("FormatSulfurConfig() error = %v", err)
	}

	v, err := lang.Run(t.Context(), buf.String()+" settings;")
	if err != nil {
		t.Fatalf("output does not run: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"big":    int64(1) << 40,
		"flag":   true,
		"nested": map[string]any{"neg": int32(-5), "s": "plain text"},
	}

	got := lang.ToNative(v)
	if lang.Inspect(v) == "" || !equalNative(got, want) {
		t.Errorf("round trip = %#v, want %#v", got, want)
	}
}

func TestFormatSulfurConfigUnrepresentable(t *testing.T) {
	var buf bytes.Buffer

	err := FormatSulfurConfig(t.Context(), &buf, "c", map[string]any{"s": `say "hi"`})
	if !errors.Is(err, ErrConfigValue) {
		t.Errorf("error = %v, want ErrConfigValue", err)
	}
}

func equalNative(a, b any) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)

	if aok != bok {
		return false
	}

	if !aok {
		return a == b
	}

	if len(am) != len(bm) {
		return false
	}

	for k, av := range am {
		if !equalNative(av, bm[k]) {
			return false
		}
	}

	return true
}

//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sulfur/log"
	"github.com/ardnew/sulfur/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling (${enum})." placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory."                     type:"path"`
	Addr string `default:""                                     help:"Serve net/http/pprof on this address while running." placeholder:"HOST:PORT"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if configured. The returned function stops it.
func (f pprofConfig) start(ctx context.Context) (stop func(), err error) {
	attrs := []slog.Attr{
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
		slog.String("addr", f.Addr),
	}

	s, err := profile.Profiler{
		Mode:  f.Mode,
		Dir:   f.Dir,
		Addr:  f.Addr,
		Quiet: true,
	}.Start()
	if err != nil {
		return func() {}, err
	}

	if f.Mode != "" {
		log.DebugContext(ctx, "pprof start", attrs...)
	}

	return func() {
		s.Stop()

		if f.Mode != "" {
			log.DebugContext(ctx, "pprof stop", attrs...)
		}
	}, nil
}

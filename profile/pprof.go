//go:build pprof

package profile

import (
	"context"
	"fmt"
	"maps"
	"net"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof handlers on http.DefaultServeMux
	"slices"
	"time"

	"github.com/pkg/profile"
)

// Enabled reports whether profiling is compiled in.
const Enabled = true

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes in sorted order.
func Modes() []string { return slices.Sorted(maps.Keys(modes)) }

const shutdownTimeout = 2 * time.Second

type session struct {
	profile interface{ Stop() }
	server  *http.Server
}

func start(p Profiler) (Stopper, error) {
	mode, ok := modes[p.Mode]
	if !ok {
		return nop{}, fmt.Errorf("%w: %q", ErrUnknownMode, p.Mode)
	}

	var s session

	if p.Addr != "" {
		ln, err := net.Listen("tcp", p.Addr)
		if err != nil {
			return nop{}, err
		}

		s.server = &http.Server{Handler: http.DefaultServeMux, ReadHeaderTimeout: shutdownTimeout}

		go func() { _ = s.server.Serve(ln) }()
	}

	opts := []func(*profile.Profile){mode, profile.NoShutdownHook}

	if p.Dir != "" {
		opts = append(opts, profile.ProfilePath(p.Dir))
	}

	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	s.profile = profile.Start(opts...)

	return s, nil
}

func (s session) Stop() {
	s.profile.Stop()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = s.server.Shutdown(ctx)
	}
}

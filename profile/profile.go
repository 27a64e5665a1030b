package profile

import "errors"

// Tag is the build tag that enables profiling.
const Tag = "pprof"

var (
	// ErrDisabled is returned when a session is requested from a binary
	// built without [Tag].
	ErrDisabled = errors.New("profiling not compiled in (build with -tags " + Tag + ")")

	// ErrUnknownMode is returned for a mode not listed by [Modes].
	ErrUnknownMode = errors.New("unknown profiling mode")
)

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode selects what is profiled. It must be one of [Modes], or empty to
	// disable profiling.
	Mode string

	// Dir receives the profile. The working directory is used when empty.
	Dir string

	// Addr, when set, is the listen address of a net/http/pprof server that
	// runs for the length of the session.
	Addr string

	// Quiet suppresses the messages pkg/profile prints on start and stop.
	Quiet bool
}

// Start begins the session. The returned Stopper is never nil and is safe
// to call when profiling is disabled.
func (p Profiler) Start() (Stopper, error) {
	if p.Mode == "" {
		return nop{}, nil
	}

	return start(p)
}

type nop struct{}

func (nop) Stop() {}

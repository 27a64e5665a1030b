//go:build !pprof

package profile

// Enabled reports whether profiling is compiled in.
const Enabled = false

// Modes returns the supported profiling modes.
func Modes() []string { return nil }

func start(Profiler) (Stopper, error) { return nop{}, ErrDisabled }

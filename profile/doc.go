// Package profile runs optional runtime profiling sessions.
//
// Profiling is compiled in only when building with the "pprof" tag:
//
//	go build -tags pprof ./...
//
// Without the tag, [Enabled] is false, [Modes] is empty, and starting a
// session with a mode returns [ErrDisabled].
//
// A session is described by a [Profiler] and started with [Profiler.Start]:
//
//	stop, err := profile.Profiler{Mode: "cpu", Dir: dir}.Start()
//	if err != nil {
//		return err
//	}
//	defer stop.Stop()
//
// Profiles are written by [github.com/pkg/profile] to Dir using the name of
// the mode, e.g. cpu.pprof or mem.pprof. Analyze them with
//
//	go tool pprof -http=: sulfur cpu.pprof
//
// When Addr is set, the session also serves the [net/http/pprof] handlers on
// that address until it is stopped, so live profiles can be collected from a
// long REPL session:
//
//	go tool pprof http://localhost:6060/debug/pprof/heap
package profile

// Package cli contains the command line interface for sulfur.
//
// # Usage
//
// With no subcommand, sulfur runs the named scripts, or standard input when
// none are given:
//
//	sulfur script.sf lib.sf
//	echo 'println(strRepeat("ab", 3));' | sulfur
//	sulfur run --output=json script.sf
//	sulfur fmt native script.sf
//	sulfur repl
//	sulfur init --format=yaml
//
// A script name that is not an existing file is looked up in each --include
// directory and then in each directory of $SULFUR_PATH. The [pkg.ScriptExt]
// extension may be omitted.
//
// # Globals
//
//   - --define NAME=EXPR (-D): Bind a global constant before any script runs.
//     EXPR is evaluated with the expr language, so -D 'limit=8 * 1024' binds
//     limit to 8192.
//   - --max-call-depth: Abort scripts whose function calls nest deeper.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.sf in the user
// configuration directory. A Sulfur configuration file is an ordinary script
// that binds the constant config to an object:
//
//	const config = {
//	  logLevel: "debug",
//	  define: { greeting: "'hello'" },
//	  maxCallDepth: 256,
//	};
//
// Keys may be spelled as the flag name, with underscores, in camelCase, or
// nested by hyphen-separated component ({ log: { level: "debug" } }).
// Flags given on the command line take precedence.
// A configuration file that fails to parse or run is ignored with a warning.
//
// The init command writes a configuration file holding the current value of
// every global flag.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp layout (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o sulfur .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/sulfur/pprof)
//   - --pprof-addr: Serve net/http/pprof while running
//
// # Examples
//
//	# Debug logging with CPU profiling
//	sulfur --log-level=debug --pprof-mode=cpu script.sf
//
//	# JSON logs from an interactive session without history
//	sulfur --log-format=json repl --no-history
package cli

// Package log provides leveled, structured logging built on [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Info("script loaded", slog.String("path", path))
//
// The zero Logger discards all records, which lets packages accept a Logger
// in their options without requiring callers to provide one.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug] and is
// used for per-step diagnostics such as tokenizing, cache lookups, and
// function calls. Levels and formats implement [encoding.TextUnmarshaler]
// so they can be read directly from flags and configuration files.
//
// # Formats
//
// [FormatText] writes one line per record. When pretty output is enabled
// (the default) the line is styled with lipgloss, and styling is dropped
// automatically when the output is not a terminal. [FormatJSON] writes one
// JSON object per record.
//
// # Package-Level Logger
//
// The package-level functions log through a default Logger writing to
// standard error. [Config] reconfigures it and [SetDefault] replaces it.
// Functions and methods without a context argument use
// [DefaultContextProvider].
package log

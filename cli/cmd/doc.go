// Package cmd provides the run, fmt, repl, and init subcommands of the
// Sulfur command-line interface.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file, without extension.
	ConfigIdentifier = "config"
)

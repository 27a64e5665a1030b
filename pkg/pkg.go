//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the semantic version of the sulfur module with surrounding
// whitespace removed.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and the REPL
	// banner.
	Name = "sulfur"

	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Tree-walking interpreter for the Sulfur scripting language"

	// ScriptExt is the conventional file extension of Sulfur source files.
	ScriptExt = ".sf"

	// PathEnv names the environment variable holding the script search path.
	PathEnv = "SULFUR_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

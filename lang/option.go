package lang

import (
	"os"

	"github.com/ardnew/sulfur/log"
)

// DefaultMaxCallDepth is the default limit on nested function calls.
// Zero means unlimited.
const DefaultMaxCallDepth = 0

// Option configures parsing and evaluation.
type Option func(*config)

type config struct {
	logger       log.Logger
	console      Console
	maxCallDepth int
}

func makeConfig(opts ...Option) config {
	cfg := config{
		console:      Console{In: os.Stdin, Out: os.Stdout},
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithLogger sets the logger that receives trace records. The zero
// [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithConsole sets the streams used by the console natives. Nil fields keep
// their defaults.
func WithConsole(console Console) Option {
	return func(c *config) {
		if console.In != nil {
			c.console.In = console.In
		}

		if console.Out != nil {
			c.console.Out = console.Out
		}
	}
}

// WithMaxCallDepth limits how deeply function calls may nest.
// A depth of zero or less disables the limit.
func WithMaxCallDepth(depth int) Option {
	return func(c *config) { c.maxCallDepth = max(depth, 0) }
}

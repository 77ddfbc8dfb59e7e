package gffxml

import "log/slog"

// DefaultMaxDepth bounds struct nesting in both directions.
const DefaultMaxDepth = 512

type config struct {
	logger   *slog.Logger
	maxDepth int
}

type Option func(*config)

// WithLogger sets the diagnostic sink. Dropped VOID fields are reported at
// WARN level. The default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMaxDepth sets the maximum struct nesting depth. Values <= 0 select
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	return c
}

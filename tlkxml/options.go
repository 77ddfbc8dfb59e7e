package tlkxml

import "log/slog"

type config struct {
	logger *slog.Logger
}

type Option func(*config)

// WithLogger sets the logger that receives dropped data warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
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
	return c
}

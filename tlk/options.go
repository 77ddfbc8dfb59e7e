package tlk

import "golang.org/x/text/encoding"

type config struct {
	limits  Limits
	charset encoding.Encoding
}

// Option configures Decode and Encode.
type Option func(*config)

func WithLimits(l Limits) Option {
	return func(c *config) { c.limits = l }
}

// WithCharset sets the code page of entry text on disk. Without it text
// bytes are kept verbatim. Sound ResRefs are always ASCII.
func WithCharset(enc encoding.Encoding) Option {
	return func(c *config) { c.charset = enc }
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	c.limits = c.limits.withDefaults()
	return c
}

package gff

import "golang.org/x/text/encoding"

type readConfig struct {
	limits  Limits
	charset encoding.Encoding
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithReadCharset decodes CExoString and CExoLocString text from the given
// code page into UTF-8. Without it text bytes are kept verbatim.
func WithReadCharset(enc encoding.Encoding) ReadOption {
	return func(c *readConfig) { c.charset = enc }
}

type writeConfig struct {
	limits  Limits
	charset encoding.Encoding
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithWriteCharset encodes CExoString and CExoLocString text from UTF-8 into
// the given code page. Text that the code page cannot represent fails
// validation.
func WithWriteCharset(enc encoding.Encoding) WriteOption {
	return func(c *writeConfig) { c.charset = enc }
}

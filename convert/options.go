package convert

import (
	"log/slog"

	"golang.org/x/text/encoding"

	"github.com/Liareth/anphillia-tools/gff"
	"github.com/Liareth/anphillia-tools/gffxml"
	"github.com/Liareth/anphillia-tools/tlk"
	"github.com/Liareth/anphillia-tools/tlkxml"
)

type config struct {
	logger   *slog.Logger
	charset  encoding.Encoding
	limits   gff.Limits
	maxDepth int
}

type Option func(*config)

// WithLogger sets the logger for progress and diagnostics. It is also
// handed to the XML walker, which reports dropped VOID fields on it.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithCharset sets the code page of text in binary files. XML is always
// UTF-8.
func WithCharset(enc encoding.Encoding) Option {
	return func(c *config) { c.charset = enc }
}

// WithLimits bounds binary decoding and encoding. Talk tables take only
// MaxFileSize from it.
func WithLimits(l gff.Limits) Option {
	return func(c *config) { c.limits = l }
}

// WithMaxDepth bounds struct nesting in the XML walker.
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
	return c
}

func (c config) xmlOptions() []gffxml.Option {
	return []gffxml.Option{gffxml.WithLogger(c.logger), gffxml.WithMaxDepth(c.maxDepth)}
}

func (c config) readOptions() []gff.ReadOption {
	opts := []gff.ReadOption{gff.WithReadLimits(c.limits)}
	if c.charset != nil {
		opts = append(opts, gff.WithReadCharset(c.charset))
	}
	return opts
}

func (c config) writeOptions() []gff.WriteOption {
	opts := []gff.WriteOption{gff.WithWriteLimits(c.limits)}
	if c.charset != nil {
		opts = append(opts, gff.WithWriteCharset(c.charset))
	}
	return opts
}

func (c config) tlkXMLOptions() []tlkxml.Option {
	return []tlkxml.Option{tlkxml.WithLogger(c.logger)}
}

func (c config) tlkOptions() []tlk.Option {
	opts := []tlk.Option{tlk.WithLimits(tlk.Limits{MaxFileSize: c.limits.MaxFileSize})}
	if c.charset != nil {
		opts = append(opts, tlk.WithCharset(c.charset))
	}
	return opts
}

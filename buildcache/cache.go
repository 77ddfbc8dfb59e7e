package buildcache

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Liareth/anphillia-tools/internal/fsutil"
)

// DefaultMaxEntrySize bounds the uncompressed size of an entry.
const DefaultMaxEntrySize uint64 = 64 << 20

// Cache is a directory of entries. It is safe for concurrent use.
type Cache struct {
	dir      string
	comp     Compression
	maxEntry uint64
	logger   *slog.Logger
}

type Option func(*Cache)

// WithCompression sets the algorithm new entries are stored with. Entries
// written with any algorithm can be read regardless of this setting.
func WithCompression(c Compression) Option {
	return func(cc *Cache) { cc.comp = c }
}

// WithMaxEntrySize bounds entries in both directions: Put rejects larger
// data and Get refuses to expand larger entries.
func WithMaxEntrySize(n uint64) Option {
	return func(cc *Cache) { cc.maxEntry = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(cc *Cache) { cc.logger = l }
}

// Open returns a cache rooted at dir, creating it when missing. New
// entries are Zstandard compressed unless WithCompression says otherwise.
func Open(dir string, opts ...Option) (*Cache, error) {
	c := &Cache{dir: dir, comp: CompZSTD, maxEntry: DefaultMaxEntrySize}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if !c.comp.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c.comp)
	}
	if c.maxEntry == 0 {
		c.maxEntry = DefaultMaxEntrySize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return c, nil
}

func (c *Cache) path(k Key) string {
	h := k.String()
	return filepath.Join(c.dir, h[:2], h+entryExt)
}

// Get returns the data stored under k. A missing entry is reported as
// (nil, false, nil); a damaged entry is an error.
func (c *Cache) Get(k Key) ([]byte, bool, error) {
	f, err := os.Open(c.path(k))
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("cache miss", "key", k.String())
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", k, err)
	}
	defer f.Close()
	data, err := decodeEntry(bufio.NewReader(f), c.maxEntry)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", k, err)
	}
	c.logger.Debug("cache hit", "key", k.String(), "bytes", len(data))
	return data, true, nil
}

// Put stores data under k, replacing any previous entry.
func (c *Cache) Put(k Key, data []byte) error {
	if uint64(len(data)) > c.maxEntry {
		return fmt.Errorf("%w: entry of %d bytes exceeds %d", ErrLimitExceeded, len(data), c.maxEntry)
	}
	raw, err := encodeEntry(c.comp, data)
	if err != nil {
		return fmt.Errorf("compressing cache entry %s: %w", k, err)
	}
	if err := fsutil.WriteFile(c.path(k), raw, 0o644); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", k, err)
	}
	c.logger.Debug("cache store", "key", k.String(), "bytes", len(data), "stored", len(raw), "compression", c.comp.String())
	return nil
}

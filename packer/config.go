package packer

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/Liareth/anphillia-tools/buildcache"
)

// DefaultCharset is the code page of text in game files.
const DefaultCharset = "windows-1252"

// DefaultTypes are the file types converted to XML when no type list is
// configured: the GFF types and talk tables.
var DefaultTypes = []string{
	"are", "dlg", "fac", "gic", "git", "ifo", "itp", "mod",
	"utc", "utd", "ute", "uti", "utm", "utp", "uts", "utt", "utw",
	"tlk",
}

// Config controls a batch run. In and Out come from the command line; the
// remaining fields may also be read from a YAML file with LoadFile.
type Config struct {
	// In is the directory to convert.
	In string `yaml:"-"`

	// Out is the directory results are written to. It is created when
	// missing.
	Out string `yaml:"-"`

	// Workers bounds the number of files converted at once.
	Workers int `yaml:"workers"`

	// Types lists the file extensions converted to XML.
	Types []string `yaml:"types"`

	// Charset names the code page of text in binary files. It defaults to
	// DefaultCharset; empty keeps text bytes verbatim, and text that is not
	// UTF-8 then fails to convert.
	Charset string `yaml:"charset"`

	// MaxDepth bounds struct nesting in the XML walker.
	MaxDepth int `yaml:"max_depth"`

	// Cache configures the conversion cache.
	Cache CacheConfig `yaml:"cache"`

	Logger *slog.Logger `yaml:"-"`
}

// CacheConfig configures the conversion cache.
type CacheConfig struct {
	// Dir enables the cache when set.
	Dir string `yaml:"dir"`

	// Compression is one of none, zip, zstd, lz4 or brotli.
	Compression string `yaml:"compression"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Types:   append([]string(nil), DefaultTypes...),
		Charset: DefaultCharset,
		Cache:   CacheConfig{Compression: buildcache.CompZSTD.String()},
	}
}

// LoadFile reads a YAML configuration file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first problem with c.
func (c *Config) Validate() error {
	if c.In == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Out == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Types) == 0 {
		return fmt.Errorf("type list is empty")
	}
	if _, err := c.encoding(); err != nil {
		return err
	}
	if c.Cache.Dir != "" {
		if _, err := buildcache.ParseCompression(c.Cache.Compression); err != nil {
			return fmt.Errorf("cache compression: %w", err)
		}
	}
	return nil
}

func (c *Config) encoding() (encoding.Encoding, error) {
	if c.Charset == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(c.Charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q", c.Charset)
	}
	return enc, nil
}

func (c *Config) typeSet() map[string]bool {
	set := make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		set[strings.ToLower(strings.TrimPrefix(t, "."))] = true
	}
	return set
}

// fingerprint identifies the options that change conversion output. It is
// part of every cache key.
func (c *Config) fingerprint() string {
	return fmt.Sprintf("charset=%s;max_depth=%d", strings.ToLower(c.Charset), c.MaxDepth)
}

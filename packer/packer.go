package packer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Liareth/anphillia-tools/buildcache"
	"github.com/Liareth/anphillia-tools/convert"
	"github.com/Liareth/anphillia-tools/internal/fsutil"
)

const (
	// RepoRoot marks a directory of XML produced by a GFF to XML run.
	RepoRoot = "REPO_ROOT"
	// UnprocessedFile lists the inputs a run skipped.
	UnprocessedFile = "unprocessed.txt"
)

type job struct {
	src string
	// dst is the output path. In ModeToGFF it ends in convert.TypeExt.
	dst string
}

type packer struct {
	cfg    *Config
	mode   Mode
	logger *slog.Logger
	opts   []convert.Option
	cache  *buildcache.Cache
	domain string
}

// Function variables for testing injection.
var readFile = os.ReadFile

// Run converts cfg.In into cfg.Out. The returned report is never nil. The
// error joins every per-file failure, or is the setup error or context
// error that ended the run early.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	report := &Report{}
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	p, err := newPacker(cfg)
	if err != nil {
		return report, err
	}
	report.Mode = p.mode
	p.logger.Info("batch mode", "mode", p.mode.String(), "in", cfg.In, "out", cfg.Out, "workers", cfg.Workers)

	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return report, fmt.Errorf("creating output directory: %w", err)
	}
	jobs, unprocessed, err := p.plan()
	if err != nil {
		return report, err
	}
	report.Unprocessed = unprocessed
	jobs, report.Failed = p.dedupe(jobs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(cfg.Workers)
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			dst, cached, err := p.convert(j)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("conversion failed", "src", j.src, "error", err)
				report.Failed = append(report.Failed, Failure{Src: j.src, Err: err})
				return nil
			}
			report.Converted = append(report.Converted, Entry{Src: j.src, Dst: dst, Cached: cached})
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Converted, func(a, b int) bool { return report.Converted[a].Src < report.Converted[b].Src })
	sort.Slice(report.Failed, func(a, b int) bool { return report.Failed[a].Src < report.Failed[b].Src })
	sort.Strings(report.Unprocessed)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if p.mode == ModeToXML {
		if err := fsutil.WriteFile(filepath.Join(cfg.Out, RepoRoot), nil, 0o644); err != nil {
			return report, fmt.Errorf("writing %s marker: %w", RepoRoot, err)
		}
	}
	if len(report.Unprocessed) > 0 {
		list := strings.Join(report.Unprocessed, "\n") + "\n"
		if err := fsutil.WriteFile(filepath.Join(cfg.Out, UnprocessedFile), []byte(list), 0o644); err != nil {
			return report, fmt.Errorf("writing %s: %w", UnprocessedFile, err)
		}
	}
	p.logger.Info("batch done",
		"converted", len(report.Converted),
		"cached", report.Cached(),
		"unprocessed", len(report.Unprocessed),
		"failed", len(report.Failed))
	return report, report.Err()
}

func newPacker(cfg *Config) (*packer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	enc, err := cfg.encoding()
	if err != nil {
		return nil, err
	}
	p := &packer{
		cfg:    cfg,
		mode:   DetectMode(cfg.In),
		logger: logger,
	}
	p.opts = []convert.Option{convert.WithLogger(logger), convert.WithMaxDepth(cfg.MaxDepth)}
	if enc != nil {
		p.opts = append(p.opts, convert.WithCharset(enc))
	}

	if cfg.Cache.Dir != "" {
		comp, err := buildcache.ParseCompression(cfg.Cache.Compression)
		if err != nil {
			return nil, err
		}
		p.cache, err = buildcache.Open(cfg.Cache.Dir, buildcache.WithCompression(comp), buildcache.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		p.domain = buildcache.DomainToXML
		if p.mode == ModeToGFF {
			p.domain = buildcache.DomainToGFF
		}
		p.domain += ";" + cfg.fingerprint()
	}
	return p, nil
}

// DetectMode returns ModeToGFF when dir holds a REPO_ROOT marker.
func DetectMode(dir string) Mode {
	if _, err := os.Stat(filepath.Join(dir, RepoRoot)); err == nil {
		return ModeToGFF
	}
	return ModeToXML
}

func (p *packer) plan() (jobs []job, unprocessed []string, err error) {
	if p.mode == ModeToGFF {
		err = filepath.WalkDir(p.cfg.In, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if path == filepath.Join(p.cfg.In, RepoRoot) {
				return nil
			}
			if !convert.IsXML(path) {
				unprocessed = append(unprocessed, path)
				return nil
			}
			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			jobs = append(jobs, job{src: path, dst: filepath.Join(p.cfg.Out, name+convert.TypeExt)})
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", p.cfg.In, err)
		}
		return jobs, unprocessed, nil
	}

	entries, err := os.ReadDir(p.cfg.In)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", p.cfg.In, err)
	}
	types := p.cfg.typeSet()
	for _, d := range entries {
		if !d.Type().IsRegular() {
			continue
		}
		path := filepath.Join(p.cfg.In, d.Name())
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Name()), "."))
		if !types[ext] {
			unprocessed = append(unprocessed, path)
			continue
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		jobs = append(jobs, job{src: path, dst: filepath.Join(p.cfg.Out, ext, name+".xml")})
	}
	return jobs, unprocessed, nil
}

// dedupe drops jobs whose output would overwrite that of an earlier job
// and returns them as failures. In ModeToGFF the output type is only known
// from the document, so sources sharing a name are read for their type.
func (p *packer) dedupe(jobs []job) ([]job, []Failure) {
	stems := make(map[string]int, len(jobs))
	for _, j := range jobs {
		stems[j.dst]++
	}
	var (
		kept   = jobs[:0:0]
		failed []Failure
		claims = make(map[string]string, len(jobs))
	)
	for _, j := range jobs {
		key := j.dst
		if stems[j.dst] > 1 && strings.HasSuffix(j.dst, convert.TypeExt) {
			resolved, ok := p.resolveType(j)
			if !ok {
				kept = append(kept, j)
				continue
			}
			key = resolved
		}
		if first, ok := claims[key]; ok {
			p.logger.Error("duplicate output", "src", j.src, "first", first, "dst", key)
			failed = append(failed, Failure{Src: j.src, Err: fmt.Errorf("%w: %s is also written from %s", ErrDuplicateOutput, key, first)})
			continue
		}
		claims[key] = j.src
		kept = append(kept, j)
	}
	return kept, failed
}

// resolveType returns the final output path of an XML job. It reports
// false for a source that cannot be read; that job fails in conversion.
func (p *packer) resolveType(j job) (string, bool) {
	data, err := readFile(j.src)
	if err != nil {
		return "", false
	}
	ext, err := convert.OutputExt(data, true)
	if err != nil {
		return "", false
	}
	return strings.TrimSuffix(j.dst, convert.TypeExt) + "." + ext, true
}

// convert runs one job and returns the path written and whether the
// result came from the cache.
func (p *packer) convert(j job) (string, bool, error) {
	data, err := readFile(j.src)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", j.src, err)
	}

	var key buildcache.Key
	if p.cache != nil {
		key = buildcache.KeyOf(p.domain, data)
		out, ok, err := p.cache.Get(key)
		if err != nil {
			p.logger.Warn("ignoring cache entry", "src", j.src, "error", err)
		}
		if ok {
			dst, err := p.write(j, out)
			if err == nil {
				p.logger.Debug("converted from cache", "src", j.src, "dst", dst)
			}
			return dst, true, err
		}
	}

	var out []byte
	if p.mode == ModeToGFF {
		out, _, err = convert.FromXML(data, p.opts...)
	} else {
		out, _, err = convert.ToXML(data, p.opts...)
	}
	if err != nil {
		return "", false, err
	}
	dst, err := p.write(j, out)
	if err != nil {
		return "", false, err
	}
	p.logger.Debug("converted", "src", j.src, "dst", dst)

	if p.cache != nil {
		if err := p.cache.Put(key, out); err != nil {
			p.logger.Warn("cache store failed", "src", j.src, "error", err)
		}
	}
	return dst, false, nil
}

func (p *packer) write(j job, out []byte) (string, error) {
	dst := j.dst
	if strings.HasSuffix(dst, convert.TypeExt) {
		ext, err := convert.OutputExt(out, false)
		if err != nil {
			return "", err
		}
		dst = strings.TrimSuffix(dst, convert.TypeExt) + "." + ext
	}
	if err := fsutil.WriteFile(dst, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}

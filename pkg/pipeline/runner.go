package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeviz/pkg/cache"
	"github.com/matzehuels/pipeviz/pkg/observability"
)

// Runner renders pipelines with artifact caching.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner as long as each renders its own
// Pipeline.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.TTLArtifact,
		Logger: logger,
	}
}

// Options selects what a Runner renders.
type Options struct {
	// Name identifies the pipeline contents in cache keys, e.g. a catalog
	// example name. Pipelines with an empty name are never cached.
	Name    string
	Formats []string
	// Refresh skips cache lookups but still stores the new artifacts.
	Refresh bool
}

// Result contains the outputs of a run.
type Result struct {
	Artifacts  map[string][]byte
	RenderTime time.Duration
	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Execute renders p in the requested formats, serving artifacts from the
// cache when all of them are present.
func (r *Runner) Execute(ctx context.Context, p *Pipeline, opts Options) (*Result, error) {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	cfg := p.Config()
	keys := make(map[string]string, len(formats))
	if opts.Name != "" {
		for _, f := range formats {
			keys[f] = r.Keyer.ArtifactKey(opts.Name, cache.ArtifactKeyOpts{Format: f, Config: cfg})
		}
	}

	if opts.Name != "" && !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, keys); ok {
			r.Logger.Debug("artifacts served from cache", "name", opts.Name, "formats", formats)
			return &Result{Artifacts: artifacts, CacheHit: true}, nil
		}
	}

	start := time.Now()
	artifacts, err := p.Render(ctx, formats...)
	if err != nil {
		return nil, err
	}
	result := &Result{Artifacts: artifacts, RenderTime: time.Since(start)}

	for format, key := range keys {
		data := artifacts[format]
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered outputs",
		"name", opts.Name,
		"formats", formats,
		"duration", result.RenderTime)
	return result, nil
}

// lookup returns the cached artifacts if every key is present.
func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(keys))
	for format, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

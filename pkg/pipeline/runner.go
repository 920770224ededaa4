package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackup/pkg/cache"
	"github.com/matzehuels/stackup/pkg/observability"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the expiry of cached artifacts; zero caches without expiry.
	TTL time.Duration
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
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute runs the complete build → netlist → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	result := &Result{
		DocumentHash: cache.Hash(opts.Document),
	}

	// Stage 1: Build
	hooks.OnBuildStart(ctx, len(opts.Document))
	buildStart := time.Now()
	doc, b, err := Parse(opts.Document, opts.Stackup)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, result.Stats.BuildTime, err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Document = doc
	result.Board = b
	result.Stats.Layers = len(b.Layers())
	result.Stats.Vias = len(b.Vias())
	hooks.OnBuildComplete(ctx, result.Stats.Layers, result.Stats.BuildTime, nil)

	opts.Logger.Debug("built board",
		"name", b.Name(),
		"layers", result.Stats.Layers,
		"vias", result.Stats.Vias,
		"thickness", b.Thickness(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Netlist
	netStart := time.Now()
	nl := Nets(doc, b)
	result.Netlist = nl
	result.Stats.NetTime = time.Since(netStart)
	result.Stats.Nets = len(nl.Nets)
	hooks.OnNetlistComplete(ctx, result.Stats.Nets, result.Stats.NetTime)

	opts.Logger.Debug("extracted nets",
		"nets", result.Stats.Nets,
		"shapes", len(nl.Shapes),
		"duration", result.Stats.NetTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, hits, err := r.render(ctx, result, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.Hits = hits
	result.CacheInfo.RenderHit = len(hits) == len(opts.Formats)

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// render produces every requested format, serving each from the cache when
// possible, and returns the formats that were cache hits.
func (r *Runner) render(ctx context.Context, res *Result, opts Options) (map[string][]byte, []string, error) {
	rd := newRenderer(res.Board, res.Netlist, opts)
	artifacts := make(map[string][]byte)
	var hits []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(res.DocumentHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			if set, ok := r.lookup(ctx, key, format); ok {
				for name, data := range set {
					artifacts[name] = data
				}
				hits = append(hits, format)
				continue
			}
		}

		set, err := rd.render(ctx, format)
		if err != nil {
			return nil, nil, err
		}
		for name, data := range set {
			artifacts[name] = data
		}
		r.store(ctx, key, set, opts.Logger)
	}
	return artifacts, hits, nil
}

// lookup returns a cached artifact set. Backend errors and undecodable or
// incomplete entries count as misses.
func (r *Runner) lookup(ctx context.Context, key, format string) (map[string][]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	var set map[string][]byte
	if err := json.Unmarshal(data, &set); err != nil {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	for _, name := range Artifacts(format) {
		if _, ok := set[name]; !ok {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return set, true
}

func (r *Runner) store(ctx context.Context, key string, set map[string][]byte, logger *log.Logger) {
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ldraw/pkg/cache"
	"github.com/matzehuels/ldraw/pkg/observability"
)

const artifactKeyType = "artifact"

// Runner executes the pipeline with artifact caching. It holds no per-run
// state, so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects DefaultKeyer, a nil cache
// disables caching and a nil logger selects log.Default().
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs build → render. Cached artifacts are reused unless
// opts.Refresh is set; only missing formats are rendered.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		SceneHash: cache.Hash(opts.Scene),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	desc, b, err := Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Description = desc
	result.Builder = b
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = b.Count()

	r.Logger.Info("built scene",
		"scene", desc.Name,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	missing := r.lookup(ctx, result, opts)
	if len(missing) > 0 {
		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, missing)
		rendered, err := Render(ctx, b, missing, opts)
		hooks.OnRenderComplete(ctx, missing, time.Since(renderStart), err)
		if err != nil {
			return nil, err
		}
		r.store(ctx, result.SceneHash, rendered, opts)
		for f, data := range rendered {
			result.Artifacts[f] = data
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = len(missing) == 0

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookup fills result with cached artifacts and returns the formats that
// still need rendering, in request order.
func (r *Runner) lookup(ctx context.Context, result *Result, opts Options) []string {
	var missing []string
	seen := make(map[string]bool, len(opts.Formats))
	for _, format := range opts.Formats {
		if seen[format] {
			continue
		}
		seen[format] = true
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(result.SceneHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
			missing = append(missing, format)
			continue
		}
		observability.Cache().OnCacheHit(ctx, artifactKeyType)
		result.Artifacts[format] = data
		result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
	}
	return missing
}

// store writes rendered artifacts back. Write failures only cost a future
// cache hit, so they are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, sceneHash string, rendered map[string][]byte, opts Options) {
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttlFor(format)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
}

func ttlFor(format string) time.Duration {
	if format == FormatLDR || format == FormatBDR {
		return cache.TTLArtifact
	}
	return cache.TTLRender
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

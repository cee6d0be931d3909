package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ramplegend/pkg/cache"
	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/observability"
)

// Runner executes the pipeline with an artifact cache.
//
// The Runner holds no per-run state. Multiple goroutines can share one
// Runner with different scenes and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses cache.DefaultKeyer, a nil
// cache disables caching and a nil logger uses log.Default.
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

// Execute builds the scene and renders every requested format. When all
// formats are cached under the scene's hash the build is skipped.
func (r *Runner) Execute(ctx context.Context, cfg *config.Scene, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := SceneHash(cfg)
	if err != nil {
		return nil, err
	}
	result := &Result{SceneHash: hash, Artifacts: make(map[string][]byte)}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, hash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			r.Logger.Debug("served from cache", "scene", hash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	cells := len(cfg.Values())
	observability.Pipeline().OnBuildStart(ctx, cells)
	start := time.Now()
	buildOpts := []BuildOption{WithLogger(opts.Logger)}
	if opts.Clock != nil {
		buildOpts = append(buildOpts, WithClock(opts.Clock))
	}
	sc, err := BuildScene(cfg, buildOpts...)
	result.Stats.BuildTime = time.Since(start)
	observability.Pipeline().OnBuildComplete(ctx, cells, result.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}
	result.Scene = sc
	result.Stats.Cells = len(sc.Cells)
	r.Logger.Info("built scene",
		"cells", result.Stats.Cells,
		"legend", sc.Legend.Position(),
		"duration", result.Stats.BuildTime)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start = time.Now()
	artifacts, err := Render(sc, opts)
	result.Stats.RenderTime = time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return result, nil
}

// lookup returns the cached artifacts only when every format is present.
func (r *Runner) lookup(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, format)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

// SceneHash returns the content hash of a scene's canonical TOML encoding.
func SceneHash(cfg *config.Scene) (string, error) {
	data, err := cfg.Encode()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	return cache.Hash(data), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

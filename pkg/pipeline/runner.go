package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glitchid/pkg/cache"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/glitch"
	"github.com/matzehuels/glitchid/pkg/observability"
)

// cacheKeyType labels render entries in cache hooks.
const cacheKeyType = "render"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    cache.TTLArtifact,
	}
}

// cachedArtifact is the cache entry for one encoded format.
type cachedArtifact struct {
	FrameID    string            `json:"frame_id"`
	SourceKind glitch.SourceKind `json:"source_kind"`
	Data       []byte            `json:"data"`
}

// Execute renders and encodes one frame, using the cache for reproducible
// requests.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		Seed:      opts.Seed,
		Identity:  opts.Identity,
	}

	if opts.Cacheable() && !opts.Refresh {
		if r.fromCache(ctx, opts, result) {
			opts.Logger.Info("served from cache",
				"identity", result.Identity,
				"seed", result.Seed,
				"formats", opts.Formats)
			return result, nil
		}
	}

	// Render
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Identity, opts.Seed)

	cfg := opts.glitchConfig()
	cfg.StageHook = func(stage glitch.Stage, d time.Duration) {
		hooks.OnStage(ctx, string(stage), d)
		opts.Logger.Debug("stage complete", "stage", stage, "duration", d)
	}

	renderStart := time.Now()
	out, err := glitch.Render(cfg, opts.Surface, glitch.Input{
		Source:   opts.Source,
		Identity: opts.Identity,
		Time:     opts.Timestamp,
		Rand:     glitch.NewRandom(opts.Seed),
	})
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Identity, result.Stats.RenderTime, err)
	if err != nil {
		if errors.Is(err, glitch.ErrNoSurface) {
			return nil, apperr.Wrap(apperr.ErrCodeCapability, err, "no drawing surface available")
		}
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Image = out.Buffer
	result.FrameID = out.FrameID
	result.SourceKind = out.Source

	if out.Source == glitch.SourceCorrupt {
		opts.Logger.Warn("source image could not be decoded", "name", opts.SourceName)
	}
	opts.Logger.Info("rendered frame",
		"identity", result.Identity,
		"seed", result.Seed,
		"source", result.SourceKind,
		"duration", result.Stats.RenderTime)

	// Encode
	encodeStart := time.Now()
	img := out.Buffer.RGBA()
	for _, format := range opts.Formats {
		start := time.Now()
		data, err := Encode(img, format)
		if err != nil {
			return nil, err
		}
		hooks.OnEncode(ctx, format, len(data), time.Since(start))
		result.Artifacts[format] = data
		result.Stats.Bytes += len(data)
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	if opts.Cacheable() {
		r.toCache(ctx, opts, result)
	}
	return result, nil
}

// fromCache fills result when every requested format is cached.
func (r *Runner) fromCache(ctx context.Context, opts Options, result *Result) bool {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(opts.RenderKeyOpts(format)))
		if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		var entry cachedArtifact
		if !hit || json.Unmarshal(data, &entry) != nil {
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
			return false
		}
		artifacts[format] = entry.Data
		result.FrameID = entry.FrameID
		result.SourceKind = entry.SourceKind
	}

	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	for format, data := range artifacts {
		result.Artifacts[format] = data
		result.Stats.Bytes += len(data)
	}
	result.CacheInfo.RenderHit = true
	return true
}

func (r *Runner) toCache(ctx context.Context, opts Options, result *Result) {
	for format, data := range result.Artifacts {
		entry, err := json.Marshal(cachedArtifact{
			FrameID:    result.FrameID,
			SourceKind: result.SourceKind,
			Data:       data,
		})
		if err != nil {
			continue
		}
		if err := r.Cache.Set(ctx, r.Keyer.RenderKey(opts.RenderKeyOpts(format)), entry, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(entry))
	}
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

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/observability"
	"github.com/cladeviz/clade/pkg/render/dendro"
	"github.com/cladeviz/clade/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete parse → transform → layout → render pipeline
// with artifact caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, "newick")
	t, err := newick.Parse(opts.Newick)
	result.Stats.ParseTime = time.Since(parseStart)
	observability.Pipeline().OnParseComplete(ctx, "newick", leafCount(t), result.Stats.ParseTime, err)
	if err != nil {
		return nil, err
	}

	// Stage 2: Transform
	if err := Transform(t, opts); err != nil {
		return nil, err
	}
	result.Newick = newick.String(t)
	result.TreeHash = cache.Hash([]byte(result.Newick))
	result.Stats.LeafCount = t.LeafCount()

	opts.Logger.Info("parsed tree",
		"leaves", result.Stats.LeafCount,
		"duration", result.Stats.ParseTime)

	// Stage 3: Layout. Paint recomputes coordinates itself, so this pass
	// exists to surface layout timing independently of rendering.
	if !opts.IsNodelink() {
		layoutStart := time.Now()
		observability.Pipeline().OnLayoutStart(ctx, result.Stats.LeafCount)
		dendro.Compute(t, dendro.Options{
			XScale:       opts.XScale,
			YScale:       opts.YScale,
			MinCollapsed: opts.MinCollapsed,
		})
		result.Stats.LayoutTime = time.Since(layoutStart)
		observability.Pipeline().OnLayoutComplete(ctx, result.Stats.LayoutTime, nil)
	}

	// Stage 4: Render, cached per artifact.
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders artifacts for an already-transformed tree,
// serving every requested format from cache when possible. The second return
// reports whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *tree.Tree, treeHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()

	// Artifact keys are derived from the layout key so that any option that
	// changes coordinates also changes every artifact key.
	layoutKey := cache.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		allCached := true
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(t, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := cache.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
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

func leafCount(t *tree.Tree) int {
	if t == nil {
		return 0
	}
	return t.LeafCount()
}

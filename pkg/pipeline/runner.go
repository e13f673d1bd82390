package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knotworks/forcemap/pkg/cache"
	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/observability"
	"github.com/knotworks/forcemap/pkg/relate"
	"github.com/knotworks/forcemap/pkg/render"
	"github.com/knotworks/forcemap/pkg/sim"
)

// seedMix decorrelates the two PCG seed words derived from one user seed.
const seedMix = 0x9e3779b97f4a7c15

// cacheTTL bounds how long cached stage results are kept.
const cacheTTL = 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result holds the output of a pipeline execution.
type Result struct {
	Relationships []relate.Relationship
	Layout        graph.Layout
	LayoutHash    string
	Artifacts     map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records per-stage timings and graph size.
type Stats struct {
	RelateTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	NodeCount  int
	EdgeCount  int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	RelateHit bool
	LayoutHit bool
	RenderHit bool
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete relate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	entitiesHash, err := hashJSON(opts.Entities)
	if err != nil {
		return nil, fmt.Errorf("hash entities: %w", err)
	}

	// Stage 1: Relate
	relateStart := time.Now()
	rels, relateHit, err := r.BuildRelationships(ctx, entitiesHash, opts)
	if err != nil {
		return nil, fmt.Errorf("relate: %w", err)
	}
	result.Relationships = rels
	result.Stats.RelateTime = time.Since(relateStart)
	result.CacheInfo.RelateHit = relateHit

	r.Logger.Info("derived relationships",
		"entities", len(opts.Entities),
		"relationships", len(rels),
		"duration", result.Stats.RelateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayout(ctx, entitiesHash, rels, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(layout.Nodes)
	result.Stats.EdgeCount = len(layout.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := graph.MarshalLayout(layout); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"engine", opts.Engine,
		"nodes", len(layout.Nodes),
		"edges", len(layout.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, layout, result.LayoutHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildRelationships runs the relate stage with caching.
// The relationship builder itself is cheap; caching exists so the derived
// set is byte-stable across CLI invocations and server instances.
func (r *Runner) BuildRelationships(ctx context.Context, entitiesHash string, opts Options) ([]relate.Relationship, bool, error) {
	key := r.Keyer.RelateKey(entitiesHash, opts.Attrs)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rels []relate.Relationship
			if err := json.Unmarshal(data, &rels); err == nil {
				observability.Cache().OnCacheHit(ctx, "relate")
				return rels, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "relate")
	}

	observability.Pipeline().OnRelateStart(ctx, len(opts.Entities))
	start := time.Now()
	rels := relate.Build(opts.Entities, opts.Attrs)
	observability.Pipeline().OnRelateComplete(ctx, len(rels), time.Since(start))

	if data, err := json.Marshal(rels); err == nil {
		if err := r.Cache.Set(ctx, key, data, cacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "relate", len(data))
		}
	}
	return rels, false, nil
}

// ComputeLayout runs the layout stage with caching.
func (r *Runner) ComputeLayout(ctx context.Context, entitiesHash string, rels []relate.Relationship, opts Options) (graph.Layout, bool, error) {
	cfg := opts.simConfig()
	key := r.Keyer.LayoutKey(entitiesHash, cache.LayoutKeyOpts{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Iterations: cfg.Iterations,
		Damping:    cfg.Damping,
		Repulsion:  cfg.Repulsion,
		Attraction: cfg.Attraction,
		Engine:     opts.Engine,
		Seed:       opts.Seed,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var l graph.Layout
			if err := json.Unmarshal(data, &l); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return l, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.Engine, len(opts.Entities))
	start := time.Now()

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^seedMix))
	g := sim.NewGraph(opts.Entities, rels, cfg, rng)
	r.engineFor(opts, cfg).Run(g)
	layout := graph.FromSim(g, cfg, opts.Seed, opts.Engine)

	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, time.Since(start), nil)

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, key, data, cacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return layout, false, nil
}

// Render runs the render stage with per-format caching.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := len(opts.Formats) > 0

	var renderErr error
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, format)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := r.renderFormat(layout, format, opts)
		if err != nil {
			renderErr = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, false, renderErr
	}
	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(layout graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(layout)
	case FormatDOT:
		return []byte(render.ToDOT(layout, render.Options{EdgeLabels: opts.EdgeLabels})), nil
	case FormatSVG:
		return render.SVG(render.ToDOT(layout, render.Options{EdgeLabels: opts.EdgeLabels}))
	case FormatPNG:
		return render.PNG(render.ToDOT(layout, render.Options{EdgeLabels: opts.EdgeLabels}))
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// engineFor selects the layout engine for the options.
func (r *Runner) engineFor(opts Options, cfg sim.Config) sim.Engine {
	if opts.Engine == graph.EngineBarnesHut {
		return sim.NewBarnesHut(cfg, opts.Theta)
	}
	return sim.NewBruteForce(cfg)
}

// hashJSON hashes any JSON-serializable value.
func hashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

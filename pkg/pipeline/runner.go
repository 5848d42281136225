package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/schemline/schemline/pkg/cache"
	"github.com/schemline/schemline/pkg/errors"
	"github.com/schemline/schemline/pkg/observability"
	"github.com/schemline/schemline/pkg/placer"
	"github.com/schemline/schemline/pkg/render/nodelink"
	"github.com/schemline/schemline/pkg/schema"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
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
		Logger: logger,
	}
}

// Execute runs the complete solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *schema.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Document:  doc,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.ConstraintCount = len(doc.Constraints)
	result.Stats.NodeCount = countNodes(doc)

	// Stage 1: Solve
	solveStart := time.Now()
	pl, docHash, solveHit, err := r.SolveWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Placement = pl
	result.DocHash = docHash
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	opts.Logger.Info("solved placement",
		"nodes", result.Stats.NodeCount,
		"constraints", result.Stats.ConstraintCount,
		"width", pl.Width,
		"height", pl.Height,
		"duration", result.Stats.SolveTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, pl, docHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo solves a document with caching and returns the document
// hash and cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, doc *schema.Document, opts Options) (*placer.Placement, string, bool, error) {
	r.applyLogger(&opts)

	docData, err := schema.MarshalDocument(doc)
	if err != nil {
		return nil, "", false, err
	}
	docHash := cache.Hash(docData)
	cacheKey := r.Keyer.PlacementKey(docHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if pl, err := schema.UnmarshalPlacement(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "placement")
				return pl, docHash, true, nil // Cache hit
			}
			// If deserialization fails, fall through to re-solve
		}
		observability.Cache().OnCacheMiss(ctx, "placement")
	}

	p := placer.New(placer.WithLogger(opts.Logger))
	if err := doc.Apply(p); err != nil {
		return nil, "", false, err
	}
	pl, err := p.Solve()
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeUnderdetermined, err, "solve %q", doc.Title)
	}

	if data, err := schema.MarshalPlacement(pl); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlacement)
		observability.Cache().OnCacheSet(ctx, "placement", len(data))
	}

	return pl, docHash, false, nil // Cache miss
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Solve(ctx context.Context, doc *schema.Document, opts Options) (*placer.Placement, error) {
	pl, _, _, err := r.SolveWithCacheInfo(ctx, doc, opts)
	return pl, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *schema.Document, pl *placer.Placement, docHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(doc, pl, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *schema.Document, pl *placer.Placement, docHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, pl, docHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func renderFormat(doc *schema.Document, pl *placer.Placement, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return schema.MarshalPlacement(pl)
	case FormatDOT:
		return []byte(nodelink.ToDOT(doc, pl, opts.dotOptions())), nil
	case FormatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(doc, pl, opts.dotOptions()))
	case FormatPNG:
		return nodelink.RenderPNG(nodelink.ToDOT(doc, pl, opts.dotOptions()))
	default:
		return nil, ValidateFormat(format)
	}
}

func (o *Options) dotOptions() nodelink.Options {
	return nodelink.Options{
		Detailed: o.Detailed,
		Scale:    o.Scale,
	}
}

func countNodes(doc *schema.Document) int {
	seen := make(map[string]bool)
	for _, l := range doc.Links {
		for _, n := range l.Nodes {
			seen[n] = true
		}
	}
	for _, c := range doc.Constraints {
		seen[c.From] = true
		seen[c.To] = true
	}
	return len(seen)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

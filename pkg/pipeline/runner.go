package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pagepack/pkg/cache"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/observability"
	"github.com/matzehuels/pagepack/pkg/packing"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Decoder images.Decoder
	Packer  packing.Packer
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
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Decoder: images.ImagingDecoder{AutoOrient: true},
		Packer:  packing.MaxRects{},
	}
}

// Plan measures the inputs and assigns them to pages without rendering.
func (r *Runner) Plan(ctx context.Context, inputs []string, opts Options) (*Plan, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	geo, err := opts.Geometry()
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	logger := r.logger(opts).With("run", runID[:8])
	plan := &Plan{RunID: runID, Geometry: geo}

	logger.Debug("page geometry",
		"paper", fmt.Sprintf("%sx%s", opts.Width, opts.Height),
		"dpi", opts.DPI,
		"container", geo.Container,
		"margin_px", geo.Limits.Margin)

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, len(inputs))
	descs, err := r.Load(ctx, inputs, geo.Limits, opts, logger)
	plan.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, len(descs), plan.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	plan.Images = descs
	plan.Stats.Images = len(descs)

	logger.Info("measured images",
		"images", len(descs),
		"duration", plan.Stats.LoadTime)

	// Stage 2: Pack
	packStart := time.Now()
	observability.Pipeline().OnPackStart(ctx, len(descs))
	pages, placements, err := Pack(ctx, r.packer(), geo, descs, logger)
	plan.Stats.PackTime = time.Since(packStart)
	observability.Pipeline().OnPackComplete(ctx, len(pages), plan.Stats.PackTime, err)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	plan.Pages = pages
	plan.Placements = placements
	plan.Stats.Pages = len(pages)
	plan.Stats.Rotated = countRotated(placements)

	logger.Info("packed pages",
		"pages", len(pages),
		"rotated", plan.Stats.Rotated,
		"duration", plan.Stats.PackTime)

	return plan, nil
}

// Execute runs the complete load → pack → render pipeline and writes the
// document to opts.Output.
func (r *Runner) Execute(ctx context.Context, inputs []string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	plan, err := r.Plan(ctx, inputs, opts)
	if err != nil {
		return nil, err
	}
	logger := r.logger(opts).With("run", plan.RunID[:8])

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, len(plan.Pages))
	n, err := Render(ctx, plan, r.decoder(), opts, logger)
	renderTime := time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, len(plan.Pages), n, renderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	stats := plan.Stats
	stats.RenderTime = renderTime
	logger.Info("wrote document",
		"path", opts.Output,
		"bytes", n,
		"duration", renderTime)

	return &Result{
		RunID:  plan.RunID,
		Plan:   plan,
		Output: opts.Output,
		Bytes:  n,
		Stats:  stats,
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// logger returns the runner's logger, falling back to the one on opts.
func (r *Runner) logger(opts Options) *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	if opts.Logger != nil {
		return opts.Logger
	}
	return log.Default()
}

func (r *Runner) decoder() images.Decoder {
	if r.Decoder == nil {
		return images.ImagingDecoder{AutoOrient: true}
	}
	return r.Decoder
}

func (r *Runner) packer() packing.Packer {
	if r.Packer == nil {
		return packing.MaxRects{}
	}
	return r.Packer
}

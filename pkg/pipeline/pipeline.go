// Package pipeline runs the load → pack → render pipeline of pagepack.
//
// The CLI and any embedding program go through the same Runner so option
// defaults, caching and error reporting stay identical everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: expand the inputs and measure every image (cached, parallel)
//  2. Pack: assign images to pages and resolve their page coordinates
//  3. Render: embed the images into a PDF and write it atomically
//
// Plan runs the first two stages; Execute runs all three. No output file is
// created unless every image has been placed and rendered.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Output = "scans.pdf"
//	result, err := runner.Execute(ctx, []string{"scans/"}, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Pages, "pages")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagepack/pkg/config"
	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/placement"
	"github.com/matzehuels/pagepack/pkg/units"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Use
// =============================================================================

const (
	// DefaultDPI is the packing resolution.
	DefaultDPI = 300

	// DefaultWidth and DefaultHeight are the A4 paper size.
	DefaultWidth  units.Mm = 210
	DefaultHeight units.Mm = 297

	// DefaultBorder is kept free along every page edge.
	DefaultBorder units.Mm = 3.0

	// DefaultMargin is the total gap between neighbouring images. Each image
	// reserves half of it on every side.
	DefaultMargin units.Mm = 1.0

	// DefaultOutput is the document path used when none is given.
	DefaultOutput = "pagepack.pdf"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
//
// Zero Width, Height, DPI and Output are replaced by defaults (Width and
// Height come from Paper when it is set). Border, Margin and the image caps
// are taken as given, since zero is meaningful for them; start from
// DefaultOptions to get the usual values.
type Options struct {
	// Page options
	Paper  string   `json:"paper,omitempty"`
	Width  units.Mm `json:"width"`
	Height units.Mm `json:"height"`
	Border units.Mm `json:"border"`
	DPI    int      `json:"dpi"`

	// Image options
	Margin         units.Mm `json:"margin"`
	MaxImageWidth  units.Mm `json:"max_image_width,omitempty"`
	MaxImageHeight units.Mm `json:"max_image_height,omitempty"`
	SkipUnreadable bool     `json:"skip_unreadable,omitempty"`

	// Output options
	Output string `json:"output,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Border: DefaultBorder,
		DPI:    DefaultDPI,
		Margin: DefaultMargin,
		Output: DefaultOutput,
	}
}

// ValidateAndSetDefaults checks every field and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Paper != "" {
		p, err := config.LookupPaper(o.Paper)
		if err != nil {
			return err
		}
		if o.Width == 0 {
			o.Width = p.Width
		}
		if o.Height == 0 {
			o.Height = p.Height
		}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateDPI(o.DPI); err != nil {
		return err
	}
	lengths := []struct {
		name     string
		value    units.Mm
		positive bool
	}{
		{"width", o.Width, true},
		{"height", o.Height, true},
		{"border", o.Border, false},
		{"margin", o.Margin, false},
		{"max image width", o.MaxImageWidth, false},
		{"max image height", o.MaxImageHeight, false},
	}
	for _, l := range lengths {
		if err := errors.ValidateLength(l.name, float64(l.value), l.positive); err != nil {
			return err
		}
	}
	if err := errors.ValidatePath(o.Output); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative, got %d", o.Workers)
	}

	o.validated = true
	return nil
}

// Geometry derives the pixel-space page layout from the options.
func (o *Options) Geometry() (Geometry, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return Geometry{}, err
	}
	c, err := packing.NewContainer(o.Width, o.Height, o.Border, o.DPI)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		PageWidth:  o.Width,
		PageHeight: o.Height,
		Container:  c,
		Frame:      placement.Frame{Border: o.Border, DPI: o.DPI},
		Limits: images.Limits{
			MaxWidth:  capPx(o.MaxImageWidth, o.DPI),
			MaxHeight: capPx(o.MaxImageHeight, o.DPI),
			Margin:    units.ToPx(o.Margin, o.DPI) / 2,
		},
	}, nil
}

// capPx converts an image cap to pixels. A positive cap never rounds down to
// zero, which would mean no cap at all.
func capPx(limit units.Mm, dpi int) int {
	if limit <= 0 {
		return 0
	}
	return max(1, units.ToPx(limit, dpi))
}

// Geometry is the page layout of a run in both unit systems.
type Geometry struct {
	PageWidth  units.Mm          `json:"page_width"`
	PageHeight units.Mm          `json:"page_height"`
	Container  packing.Container `json:"container"`
	Frame      placement.Frame   `json:"frame"`
	Limits     images.Limits     `json:"limits"`
}

// =============================================================================
// Results
// =============================================================================

// Plan is the complete page assignment of a run, before rendering.
type Plan struct {
	// RunID identifies the run in logs.
	RunID string

	Geometry Geometry

	// Images are the measured inputs in input order.
	Images []images.Descriptor

	// Pages holds the packed rects; Placements holds the same items
	// resolved to page coordinates, page by page.
	Pages      []packing.Page
	Placements [][]placement.Placement

	Stats Stats
}

// Verify checks the plan's page assignment against its images.
func (p *Plan) Verify() error {
	return packing.Verify(p.Geometry.Container, p.Pages, p.Images)
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	RunID string
	Plan  *Plan

	// Output is the path of the written document and Bytes its size.
	Output string
	Bytes  int64

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Images     int
	Pages      int
	Rotated    int
	LoadTime   time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

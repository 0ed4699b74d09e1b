package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagepack/pkg/document"
	"github.com/matzehuels/pagepack/pkg/images"
)

// =============================================================================
// Render Stage
// =============================================================================

// Render draws every page of plan into a new PDF and writes it to
// opts.Output. It returns the number of bytes written.
func Render(ctx context.Context, plan *Plan, dec images.Decoder, opts Options, logger *log.Logger) (int64, error) {
	doc := document.NewFPDF(plan.Geometry.PageWidth, plan.Geometry.PageHeight)

	renderer := document.NewRenderer(dec, logger)
	renderer.Workers = opts.Workers
	if err := renderer.Render(ctx, doc, plan.Placements); err != nil {
		return 0, err
	}

	// Last chance to stop before the output file is touched.
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return document.WriteFile(opts.Output, doc)
}

func sizeString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

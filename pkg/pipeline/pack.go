package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/placement"
)

// =============================================================================
// Pack Stage
// =============================================================================

// Pack assigns descs to pages of geo's container and resolves every placed
// item to page coordinates.
func Pack(ctx context.Context, p packing.Packer, geo Geometry, descs []images.Descriptor, logger *log.Logger) ([]packing.Page, [][]placement.Placement, error) {
	pages, err := packing.NewAssigner(p, logger).Assign(ctx, geo.Container, descs)
	if err != nil {
		return nil, nil, err
	}

	resolved := make([][]placement.Placement, len(pages))
	for i, page := range pages {
		resolved[i] = geo.Frame.ResolvePage(page)
		for _, pl := range resolved[i] {
			logger.Debug("placed image",
				"page", i+1,
				"image", pl.Item.Image.Name(),
				"rect", pl.Item.Rect,
				"rotated", pl.Rotated)
		}
	}
	return pages, resolved, nil
}

func countRotated(pages [][]placement.Placement) int {
	n := 0
	for _, page := range pages {
		for _, p := range page {
			if p.Rotated {
				n++
			}
		}
	}
	return n
}

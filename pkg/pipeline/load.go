package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
)

// =============================================================================
// Load Stage
// =============================================================================

// Load expands inputs and measures every image under lim using the runner's
// decoder and cache. An empty result is an error: a run needs at least one
// image to place.
func (r *Runner) Load(ctx context.Context, inputs []string, lim images.Limits, opts Options, logger *log.Logger) ([]images.Descriptor, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input images given")
	}

	loader := &images.Loader{
		Decoder:        r.decoder(),
		Cache:          r.Cache,
		Keyer:          r.Keyer,
		Logger:         logger,
		Workers:        opts.Workers,
		SkipUnreadable: opts.SkipUnreadable,
	}

	descs, err := loader.Load(ctx, inputs, lim)
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return nil, errors.New(errors.ErrCodeNothingToPlace, "no images found in %v", inputs)
	}

	for _, d := range descs {
		if d.Shrunk() {
			logger.Debug("shrunk image",
				"image", d.Name(),
				"from", sizeString(d.SourceWidth, d.SourceHeight),
				"to", sizeString(d.ContentWidth, d.ContentHeight))
		}
	}
	return descs, nil
}

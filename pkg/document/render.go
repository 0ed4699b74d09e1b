package document

import (
	"context"
	"image"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/placement"
)

// Renderer draws resolved pages onto a Writer.
type Renderer struct {
	Decoder images.Decoder
	Logger  *log.Logger

	// Workers bounds how many images of one page are prepared at once.
	// Zero means GOMAXPROCS.
	Workers int
}

// NewRenderer creates a renderer.
func NewRenderer(dec images.Decoder, logger *log.Logger) *Renderer {
	if dec == nil {
		dec = images.ImagingDecoder{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{Decoder: dec, Logger: logger}
}

// Render adds one page per entry of pages and embeds its placements in order.
// Images of a page are prepared concurrently; embedding is sequential.
func (r *Renderer) Render(ctx context.Context, w Writer, pages [][]placement.Placement) error {
	dec := r.Decoder
	if dec == nil {
		dec = images.ImagingDecoder{}
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start worker pool")
	}
	defer pool.Release()

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		prepared, err := prepare(ctx, pool, dec, page)
		if err != nil {
			return err
		}
		if err := w.AddPage(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "add page %d", i+1)
		}
		for j, p := range page {
			if err := w.EmbedImage(prepared[j], p); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "embed image on page %d", i+1).WithPath(p.Item.Image.Path)
			}
			logger.Debug("embedded image", "page", i+1, "image", p.Item.Image.Name(), "rotated", p.Rotated, "x", p.X, "y", p.Y)
		}
		logger.Debug("rendered page", "page", i+1, "images", len(page))
	}
	return nil
}

// prepare loads every image of a page at its content size, orients it and
// flattens it. The first failure in placement order is returned.
func prepare(ctx context.Context, pool *ants.Pool, dec images.Decoder, page []placement.Placement) ([]image.Image, error) {
	out := make([]image.Image, len(page))
	errs := make([]error, len(page))

	var wg sync.WaitGroup
	for i, p := range page {
		i, p := i, p
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			out[i], errs[i] = Prepare(dec, p)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = errors.Wrap(errors.ErrCodeInternal, err, "schedule %s", p.Item.Image.Path)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Prepare produces the pixels to embed for one placement.
func Prepare(dec images.Decoder, p placement.Placement) (image.Image, error) {
	d := p.Item.Image
	img, err := d.Load(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "failed to load image from %s", d.Path).WithPath(d.Path)
	}
	return images.Flatten(placement.Orient(img, p)), nil
}

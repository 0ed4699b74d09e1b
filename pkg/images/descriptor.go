// Package images measures input images and prepares them for embedding.
//
// A Descriptor is the immutable sizing record of one input file: its content
// size after the optional maximum-size shrink, and the uniform margin the
// packer reserves around it. Descriptors are built once per run by a Loader
// and never change afterwards; the pixels are decoded again at embed time.
//
// # Measuring
//
//	loader := images.NewLoader(images.ImagingDecoder{}, logger)
//	descs, err := loader.Load(ctx, []string{"scans/"}, images.Limits{Margin: 6})
//
// A directory input expands to every regular file in it (not recursive). Any
// file that fails to decode aborts the whole load unless SkipUnreadable is
// set.
//
// # Flattening
//
// Flatten composites translucent pixels over white, producing an opaque image
// suitable for an RGB document.
package images

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Descriptor is the placement-relevant size of one input image.
// All sizes are in pixels.
type Descriptor struct {
	// Path identifies the source file. It is the key used by the packer.
	Path string `json:"path"`

	// ContentWidth and ContentHeight are the image size after the optional
	// shrink, without margin.
	ContentWidth  int `json:"content_width"`
	ContentHeight int `json:"content_height"`

	// Margin is reserved on all four sides.
	Margin int `json:"margin"`

	// SourceWidth and SourceHeight are the decoded size of the file.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
}

// Width returns the placement width including the margin on both sides.
func (d Descriptor) Width() int { return d.ContentWidth + 2*d.Margin }

// Height returns the placement height including the margin on both sides.
func (d Descriptor) Height() int { return d.ContentHeight + 2*d.Margin }

// Name returns the base name of the source file.
func (d Descriptor) Name() string { return filepath.Base(d.Path) }

// Shrunk reports whether the content size differs from the source size.
func (d Descriptor) Shrunk() bool {
	return d.ContentWidth != d.SourceWidth || d.ContentHeight != d.SourceHeight
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%dx%d+%d)", d.Name(), d.ContentWidth, d.ContentHeight, d.Margin)
}

// Load decodes the source again and resamples it to the content size with a
// high-quality filter.
func (d Descriptor) Load(dec Decoder) (image.Image, error) {
	img, err := dec.Decode(d.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() == d.ContentWidth && b.Dy() == d.ContentHeight {
		return img, nil
	}
	return imaging.Resize(img, d.ContentWidth, d.ContentHeight, imaging.Lanczos), nil
}

// Limits bounds the content size of measured images and sets their margin.
// A zero MaxWidth or MaxHeight leaves that axis unconstrained.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	Margin    int
}

// Constrained reports whether any maximum is set.
func (l Limits) Constrained() bool { return l.MaxWidth > 0 || l.MaxHeight > 0 }

// Describe builds the descriptor of an image of the given native size.
func Describe(path string, width, height int, lim Limits) Descriptor {
	cw, ch := width, height
	if lim.Constrained() {
		cw, ch = FitWithin(width, height, lim.MaxWidth, lim.MaxHeight)
	}
	return Descriptor{
		Path:          path,
		ContentWidth:  cw,
		ContentHeight: ch,
		Margin:        lim.Margin,
		SourceWidth:   width,
		SourceHeight:  height,
	}
}

// FitWithin returns the largest size with the aspect ratio of w x h that fits
// in maxW x maxH, never larger than w x h. A non-positive maximum leaves
// that axis unconstrained. Each side is at least one pixel.
//
// This is the output size a nearest-neighbour resize would produce; only the
// size is needed to plan the layout, so no pixels are resampled here.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}

	wr := float64(maxW) / float64(w)
	hr := float64(maxH) / float64(h)
	ratio := math.Min(1, math.Min(wr, hr))
	if ratio == 1 {
		return w, h
	}

	if wr <= hr {
		return maxW, max(1, int(math.Round(float64(h)*ratio)))
	}
	return max(1, int(math.Round(float64(w)*ratio))), maxH
}

func sizeString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

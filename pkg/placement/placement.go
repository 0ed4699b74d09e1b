// Package placement turns packed pixel rectangles into page coordinates.
//
// The packer works in container pixels and may turn an image by 90 degrees
// without saying so. For each placed item this package infers the turn from
// the shape of the packed rectangle and computes where the image content
// lands on the physical page: the page border, plus the item's margin, plus
// the packed offset, converted to millimeters at the run's DPI.
package placement

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/units"
)

// Frame holds the page settings needed to map container pixels to page
// millimeters.
type Frame struct {
	Border units.Mm
	DPI    int
}

// Placement is the resolved position of one image on its page. X and Y are
// the top-left corner of the image content measured from the top-left corner
// of the page; Width and Height are the content size as drawn.
type Placement struct {
	Item    packing.PlacedItem `json:"item"`
	Rotated bool               `json:"rotated"`
	X       units.Mm           `json:"x"`
	Y       units.Mm           `json:"y"`
	Width   units.Mm           `json:"width"`
	Height  units.Mm           `json:"height"`
}

func (p Placement) String() string {
	s := fmt.Sprintf("%s at (%s, %s) size %sx%s", p.Item.Image.Name(), p.X, p.Y, p.Width, p.Height)
	if p.Rotated {
		s += " rotated"
	}
	return s
}

// IsRotated reports whether content of the given natural size was turned to
// fill rect. Wide content is turned when the rect is not wider than tall;
// tall content is turned when the rect is wider than tall. Square content is
// never turned. Earlier releases only checked wide content, so a tall image
// the packer turned was drawn unturned; the tall branch closes that gap.
func IsRotated(contentW, contentH int, rect packing.Rect) bool {
	switch {
	case contentW > contentH:
		return rect.W <= rect.H
	case contentW < contentH:
		return rect.W > rect.H
	default:
		return false
	}
}

// Resolve computes the page position of one placed item.
func (f Frame) Resolve(item packing.PlacedItem) Placement {
	d := item.Image
	rotated := IsRotated(d.ContentWidth, d.ContentHeight, item.Rect)
	w, h := d.ContentWidth, d.ContentHeight
	if rotated {
		w, h = h, w
	}
	return Placement{
		Item:    item,
		Rotated: rotated,
		X:       f.Border + units.ToMm(item.Rect.X+d.Margin, f.DPI),
		Y:       f.Border + units.ToMm(item.Rect.Y+d.Margin, f.DPI),
		Width:   units.ToMm(w, f.DPI),
		Height:  units.ToMm(h, f.DPI),
	}
}

// ResolvePage resolves every item of a page in order.
func (f Frame) ResolvePage(p packing.Page) []Placement {
	out := make([]Placement, len(p.Items))
	for i, it := range p.Items {
		out[i] = f.Resolve(it)
	}
	return out
}

// PixelOffset maps a resolved position back to the packed rect's top-left
// corner in container pixels.
func (f Frame) PixelOffset(p Placement) (x, y int) {
	m := p.Item.Image.Margin
	return units.ToPx(p.X-f.Border, f.DPI) - m, units.ToPx(p.Y-f.Border, f.DPI) - m
}

// Orient turns img clockwise by 90 degrees when p is rotated, so its
// footprint matches the packed rect. Otherwise img is returned unchanged.
func Orient(img image.Image, p Placement) image.Image {
	if !p.Rotated {
		return img
	}
	return imaging.Rotate270(img)
}

// Package packing distributes image descriptors across fixed-size pages.
//
// Packing happens in pixel space. A Container is the usable area of one page
// (paper size minus the border on each side). The Assigner repeatedly asks a
// Packer to place every image that is still waiting, keeps whatever fits as
// one page, and retries the remainder on the next page until nothing is left.
//
// # Packer contract
//
// A Packer places a subset of the given items inside a container and reports
// whether that subset is all of them:
//
//	res := packing.MaxRects{}.Pack(2410, 3438, items)
//	if res.Fit == packing.PartiallyFit {
//	    // the remaining items go to the next page
//	}
//
// A partial fit is the normal way the page loop makes progress, so it is a
// result and not an error. Only an empty fit on an empty page is fatal.
//
// # Determinism
//
// Given the same inputs in the same order, the packer and the assigner always
// produce the same pages. The working set is insertion-ordered and the
// default packer sorts stably.
package packing

import (
	"fmt"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/units"
)

// Rect is an axis-aligned rectangle in pixels. X and Y are the top-left
// corner; the rectangle covers [X, X+W) x [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Overlaps reports whether r and o share any interior point.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.W, r.H, r.X, r.Y)
}

// Item is one rectangle to pack.
type Item struct {
	ID            string
	W, H          int
	AllowRotation bool
}

// Placement is where a packer put one item. Rect has the item's size, with
// W and H swapped if the packer turned it.
type Placement struct {
	ID   string
	Rect Rect
}

// Fit tells whether a packing result holds every item.
type Fit int

const (
	// FullyFit means every item was placed.
	FullyFit Fit = iota
	// PartiallyFit means a subset was placed and the rest dropped.
	PartiallyFit
)

func (f Fit) String() string {
	switch f {
	case FullyFit:
		return "fully fit"
	case PartiallyFit:
		return "partially fit"
	default:
		return fmt.Sprintf("Fit(%d)", int(f))
	}
}

// Result is the outcome of one Pack call.
type Result struct {
	Fit        Fit
	Placements []Placement
}

// Packer places items inside a width x height container.
type Packer interface {
	Pack(width, height int, items []Item) Result
}

// PackerFunc adapts a function to the Packer interface.
type PackerFunc func(width, height int, items []Item) Result

// Pack calls f.
func (f PackerFunc) Pack(width, height int, items []Item) Result { return f(width, height, items) }

// Container is the usable pixel area of one page.
type Container struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewContainer derives the container of a paper of the given size with a
// border on every side, at dpi.
func NewContainer(width, height, border units.Mm, dpi int) (Container, error) {
	bpx := units.ToPx(border, dpi)
	c := Container{
		Width:  units.ToPx(width, dpi) - 2*bpx,
		Height: units.ToPx(height, dpi) - 2*bpx,
	}
	if c.Width <= 0 || c.Height <= 0 {
		return Container{}, errors.New(errors.ErrCodeInvalidPaper,
			"border %s leaves no usable area on a %sx%s page", border, width, height)
	}
	return c, nil
}

// Bounds returns the container as a rectangle at the origin.
func (c Container) Bounds() Rect { return Rect{W: c.Width, H: c.Height} }

func (c Container) String() string { return fmt.Sprintf("%dx%d", c.Width, c.Height) }

package packing

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/observability"
)

// PlacedItem is one image placed on a page. Rect is in container pixels and
// includes the margin on every side.
type PlacedItem struct {
	Image images.Descriptor `json:"image"`
	Rect  Rect              `json:"rect"`
}

// Page is the set of images that share one output page.
type Page struct {
	Index int          `json:"index"`
	Items []PlacedItem `json:"items"`
}

// Assigner partitions descriptors into pages.
type Assigner struct {
	Packer Packer
	Logger *log.Logger
}

// NewAssigner creates an assigner. A nil packer selects MaxRects.
func NewAssigner(p Packer, logger *log.Logger) *Assigner {
	if p == nil {
		p = MaxRects{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assigner{Packer: p, Logger: logger}
}

// Assign packs every descriptor onto as many pages as needed.
//
// Descriptors are keyed by path; a repeated path is placed once, at its first
// position. Each round packs everything still waiting into an empty
// container and keeps the fitted subset as the next page. If nothing fits,
// the run fails with ErrCodeImageTooLarge naming an image that cannot fit
// alone.
func (a *Assigner) Assign(ctx context.Context, c Container, descs []images.Descriptor) ([]Page, error) {
	packer := a.Packer
	if packer == nil {
		packer = MaxRects{}
	}
	logger := a.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ws := newWorkingSet(descs)
	if dups := len(descs) - ws.Len(); dups > 0 {
		logger.Warn("ignoring duplicate inputs", "count", dups)
	}

	var pages []Page
	for ws.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		waiting := ws.Items()
		logger.Debug("packing page", "page", len(pages)+1, "images", len(waiting))

		res := packer.Pack(c.Width, c.Height, waiting)
		if len(res.Placements) == 0 {
			return nil, a.tooLarge(packer, c, ws)
		}

		page := Page{Index: len(pages), Items: make([]PlacedItem, 0, len(res.Placements))}
		for _, p := range res.Placements {
			d, ok := ws.Remove(p.ID)
			if !ok {
				return nil, errors.New(errors.ErrCodeInternal, "packer returned unknown or repeated item %q", p.ID)
			}
			page.Items = append(page.Items, PlacedItem{Image: d, Rect: p.Rect})
		}
		pages = append(pages, page)

		logger.Debug("packed page", "page", page.Index+1, "images", len(page.Items), "result", res.Fit, "remaining", ws.Len())
		observability.Pipeline().OnPagePacked(ctx, page.Index, len(page.Items), ws.Len())
	}
	return pages, nil
}

// tooLarge builds the error for a round where nothing fit. It names the
// first waiting image that does not fit alone, falling back to the first one.
func (a *Assigner) tooLarge(p Packer, c Container, ws *workingSet) error {
	culprit := ws.First()
	for _, it := range ws.Items() {
		if res := p.Pack(c.Width, c.Height, []Item{it}); len(res.Placements) == 0 {
			culprit, _ = ws.Get(it.ID)
			break
		}
	}
	return errors.New(errors.ErrCodeImageTooLarge,
		"image %s (%dx%d px with margin) is too large to fit alone onto a page (%s px)",
		culprit.Path, culprit.Width(), culprit.Height(), c).WithPath(culprit.Path)
}

// workingSet is an insertion-ordered set of descriptors keyed by path.
type workingSet struct {
	order []string
	byID  map[string]images.Descriptor
}

func newWorkingSet(descs []images.Descriptor) *workingSet {
	ws := &workingSet{
		order: make([]string, 0, len(descs)),
		byID:  make(map[string]images.Descriptor, len(descs)),
	}
	for _, d := range descs {
		if _, ok := ws.byID[d.Path]; ok {
			continue
		}
		ws.order = append(ws.order, d.Path)
		ws.byID[d.Path] = d
	}
	return ws
}

func (ws *workingSet) Len() int { return len(ws.byID) }

func (ws *workingSet) Get(id string) (images.Descriptor, bool) {
	d, ok := ws.byID[id]
	return d, ok
}

func (ws *workingSet) First() images.Descriptor {
	for _, id := range ws.order {
		if d, ok := ws.byID[id]; ok {
			return d
		}
	}
	return images.Descriptor{}
}

// Items returns the packing inputs of every waiting descriptor in insertion
// order. Every item may be rotated.
func (ws *workingSet) Items() []Item {
	items := make([]Item, 0, len(ws.byID))
	for _, id := range ws.order {
		d, ok := ws.byID[id]
		if !ok {
			continue
		}
		items = append(items, Item{ID: id, W: d.Width(), H: d.Height(), AllowRotation: true})
	}
	return items
}

// Remove deletes id and compacts the order once it is mostly tombstones.
func (ws *workingSet) Remove(id string) (images.Descriptor, bool) {
	d, ok := ws.byID[id]
	if !ok {
		return images.Descriptor{}, false
	}
	delete(ws.byID, id)
	if len(ws.order) > 2*len(ws.byID)+16 {
		kept := ws.order[:0]
		for _, k := range ws.order {
			if _, ok := ws.byID[k]; ok {
				kept = append(kept, k)
			}
		}
		ws.order = kept
	}
	return d, true
}

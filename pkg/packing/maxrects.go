package packing

import (
	"math"
	"sort"
)

// MaxRects is a maximal-rectangles packer using the best short side fit rule.
//
// Items are tried largest first, ordered by their longer side and then by
// area, with ties kept in input order. Each item goes into the free rectangle
// that leaves the smallest leftover on its shorter side, turned by 90 degrees
// when that fits better and the item allows it. Items that fit nowhere are
// dropped and the result is a partial fit.
//
// Placements are returned in input order.
type MaxRects struct{}

// Pack implements Packer.
func (MaxRects) Pack(width, height int, items []Item) Result {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		la, lb := max(ia.W, ia.H), max(ib.W, ib.H)
		if la != lb {
			return la > lb
		}
		return ia.W*ia.H > ib.W*ib.H
	})

	free := []Rect{{W: width, H: height}}
	placed := make([]*Rect, len(items))
	n := 0
	for _, i := range order {
		it := items[i]
		if it.W <= 0 || it.H <= 0 {
			continue
		}
		r, ok := bestShortSideFit(free, it)
		if !ok {
			continue
		}
		placed[i] = &r
		n++
		free = splitFree(free, r)
	}

	res := Result{Fit: FullyFit, Placements: make([]Placement, 0, n)}
	if n < len(items) {
		res.Fit = PartiallyFit
	}
	for i, r := range placed {
		if r != nil {
			res.Placements = append(res.Placements, Placement{ID: items[i].ID, Rect: *r})
		}
	}
	return res
}

// bestShortSideFit picks the free rectangle and orientation for it. Ties are
// broken by the longer leftover side, then by free-list order, preferring the
// unrotated orientation.
func bestShortSideFit(free []Rect, it Item) (Rect, bool) {
	var best Rect
	bestShort, bestLong := math.MaxInt, math.MaxInt
	found := false

	try := func(f Rect, w, h int) {
		if w > f.W || h > f.H {
			return
		}
		dw, dh := f.W-w, f.H-h
		short, long := min(dw, dh), max(dw, dh)
		if short < bestShort || (short == bestShort && long < bestLong) {
			best = Rect{X: f.X, Y: f.Y, W: w, H: h}
			bestShort, bestLong = short, long
			found = true
		}
	}

	for _, f := range free {
		try(f, it.W, it.H)
		if it.AllowRotation && it.W != it.H {
			try(f, it.H, it.W)
		}
	}
	return best, found
}

// splitFree cuts used out of every free rectangle it overlaps, keeping the
// maximal remainders, then drops free rectangles contained in others.
func splitFree(free []Rect, used Rect) []Rect {
	out := make([]Rect, 0, len(free)+4)
	for _, f := range free {
		if !f.Overlaps(used) {
			out = append(out, f)
			continue
		}
		if used.X > f.X {
			out = append(out, Rect{X: f.X, Y: f.Y, W: used.X - f.X, H: f.H})
		}
		if used.Right() < f.Right() {
			out = append(out, Rect{X: used.Right(), Y: f.Y, W: f.Right() - used.Right(), H: f.H})
		}
		if used.Y > f.Y {
			out = append(out, Rect{X: f.X, Y: f.Y, W: f.W, H: used.Y - f.Y})
		}
		if used.Bottom() < f.Bottom() {
			out = append(out, Rect{X: f.X, Y: used.Bottom(), W: f.W, H: f.Bottom() - used.Bottom()})
		}
	}
	return pruneContained(out)
}

// pruneContained removes rectangles that lie within another one. Of two
// identical rectangles the first is kept.
func pruneContained(rects []Rect) []Rect {
	kept := rects[:0:0]
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !b.Contains(a) {
				continue
			}
			if a != b || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

package packing

import (
	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
)

// Verify checks a page assignment against the descriptors it was built from.
//
// Every distinct descriptor path must be placed exactly once, with a rect of
// its placement size (possibly turned), inside the container and not
// overlapping any other rect on the same page. Page indices must count up
// from zero.
func Verify(c Container, pages []Page, descs []images.Descriptor) error {
	want := make(map[string]images.Descriptor, len(descs))
	for _, d := range descs {
		if _, ok := want[d.Path]; !ok {
			want[d.Path] = d
		}
	}

	seen := make(map[string]int, len(want))
	bounds := c.Bounds()
	for i, p := range pages {
		if p.Index != i {
			return errors.New(errors.ErrCodeInternal, "page %d has index %d", i, p.Index)
		}
		if len(p.Items) == 0 {
			return errors.New(errors.ErrCodeInternal, "page %d is empty", i)
		}
		for j, it := range p.Items {
			path := it.Image.Path
			d, ok := want[path]
			if !ok {
				return errors.New(errors.ErrCodeInternal, "page %d places unknown image %s", i, path).WithPath(path)
			}
			if prev, dup := seen[path]; dup {
				return errors.New(errors.ErrCodeInternal, "image %s placed on page %d and page %d", path, prev, i).WithPath(path)
			}
			seen[path] = i

			r := it.Rect
			straight := r.W == d.Width() && r.H == d.Height()
			turned := r.W == d.Height() && r.H == d.Width()
			if !straight && !turned {
				return errors.New(errors.ErrCodeInternal, "image %s has rect %s, want %dx%d",
					path, r, d.Width(), d.Height()).WithPath(path)
			}
			if !bounds.Contains(r) {
				return errors.New(errors.ErrCodeInternal, "image %s at %s leaves the %s container on page %d",
					path, r, c, i).WithPath(path)
			}
			for _, other := range p.Items[:j] {
				if r.Overlaps(other.Rect) {
					return errors.New(errors.ErrCodeInternal, "images %s and %s overlap on page %d",
						other.Image.Path, path, i).WithPath(path)
				}
			}
		}
	}

	for _, d := range descs {
		if _, ok := seen[d.Path]; !ok {
			return errors.New(errors.ErrCodeInternal, "image %s was not placed", d.Path).WithPath(d.Path)
		}
	}
	return nil
}

package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/placement"
)

// Layout is a decoded plan.
type Layout struct {
	RunID     string
	Container packing.Container
	Frame     placement.Frame
	Pages     []packing.Page
	Images    []images.Descriptor
}

// ReadJSON decodes a JSON plan from r and verifies it.
//
// Images are listed in page order. ReadJSON returns an error if the JSON is
// malformed, if a recorded rotation disagrees with the rect, or if the page
// assignment fails [packing.Verify]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Layout, error) {
	var data document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode plan")
	}

	l := &Layout{
		RunID:     data.RunID,
		Container: data.Container,
		Frame:     placement.Frame{Border: data.Page.Border, DPI: data.Page.DPI},
		Pages:     make([]packing.Page, len(data.Pages)),
	}
	for i, pe := range data.Pages {
		pg := packing.Page{Index: pe.Index, Items: make([]packing.PlacedItem, len(pe.Items))}
		for j, it := range pe.Items {
			d := images.Descriptor{
				Path:          it.Path,
				ContentWidth:  it.Content.W,
				ContentHeight: it.Content.H,
				Margin:        it.Margin,
				SourceWidth:   it.Source.W,
				SourceHeight:  it.Source.H,
			}
			if placement.IsRotated(d.ContentWidth, d.ContentHeight, it.Rect) != it.Rotated {
				return nil, errors.New(errors.ErrCodeInvalidInput, "page %d: %s: rotation does not match rect %s",
					pe.Index+1, it.Path, it.Rect).WithPath(it.Path)
			}
			pg.Items[j] = packing.PlacedItem{Image: d, Rect: it.Rect}
			l.Images = append(l.Images, d)
		}
		l.Pages[i] = pg
	}

	if err := packing.Verify(l.Container, l.Pages, l.Images); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid plan")
	}
	return l, nil
}

// ImportJSON reads a JSON plan file at path and returns the decoded layout.
func ImportJSON(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path).WithPath(path)
	}
	defer f.Close()
	return ReadJSON(f)
}

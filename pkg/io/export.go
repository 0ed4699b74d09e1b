package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/pipeline"
	"github.com/matzehuels/pagepack/pkg/units"
)

type document struct {
	RunID     string            `json:"run_id,omitempty"`
	Page      page              `json:"page"`
	Container packing.Container `json:"container"`
	Pages     []pageEntry       `json:"pages"`
}

type page struct {
	Width  units.Mm `json:"width_mm"`
	Height units.Mm `json:"height_mm"`
	Border units.Mm `json:"border_mm"`
	DPI    int      `json:"dpi"`
}

type pageEntry struct {
	Index int    `json:"index"`
	Items []item `json:"items"`
}

type size struct {
	W int `json:"w"`
	H int `json:"h"`
}

type item struct {
	Path    string       `json:"path"`
	Source  size         `json:"source"`
	Content size         `json:"content"`
	Margin  int          `json:"margin"`
	Rect    packing.Rect `json:"rect"`
	Rotated bool         `json:"rotated"`
	X       units.Mm     `json:"x_mm"`
	Y       units.Mm     `json:"y_mm"`
	Width   units.Mm     `json:"width_mm"`
	Height  units.Mm     `json:"height_mm"`
}

// WriteJSON encodes a plan as JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(p *pipeline.Plan, w io.Writer) error {
	geo := p.Geometry
	out := document{
		RunID: p.RunID,
		Page: page{
			Width:  geo.PageWidth,
			Height: geo.PageHeight,
			Border: geo.Frame.Border,
			DPI:    geo.Frame.DPI,
		},
		Container: geo.Container,
		Pages:     make([]pageEntry, len(p.Placements)),
	}

	for i, placements := range p.Placements {
		entry := pageEntry{Index: i, Items: make([]item, len(placements))}
		for j, pl := range placements {
			d := pl.Item.Image
			entry.Items[j] = item{
				Path:    d.Path,
				Source:  size{d.SourceWidth, d.SourceHeight},
				Content: size{d.ContentWidth, d.ContentHeight},
				Margin:  d.Margin,
				Rect:    pl.Item.Rect,
				Rotated: pl.Rotated,
				X:       pl.X,
				Y:       pl.Y,
				Width:   pl.Width,
				Height:  pl.Height,
			}
		}
		out.Pages[i] = entry
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a plan to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(p *pipeline.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

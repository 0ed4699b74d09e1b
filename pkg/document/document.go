// Package document writes packed pages to a PDF file.
//
// A Writer receives pages and images already positioned in page millimeters.
// The Renderer drives a Writer over a page plan: it decodes each image again
// at its content size, turns it if the packer did, flattens transparency onto
// white, and embeds it. Nothing reaches the destination file until every
// page has been rendered; WriteFile writes to a temporary file next to the
// target and renames it into place.
//
// # Usage
//
//	doc := document.NewFPDF(210, 297)
//	r := document.NewRenderer(images.ImagingDecoder{}, logger)
//	if err := r.Render(ctx, doc, pages); err != nil {
//	    return err
//	}
//	n, err := document.WriteFile("out.pdf", doc)
package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"

	"github.com/matzehuels/pagepack/pkg/buildinfo"
	"github.com/matzehuels/pagepack/pkg/placement"
	"github.com/matzehuels/pagepack/pkg/units"
)

// Writer builds a paged document.
type Writer interface {
	// AddPage starts a new page. Images embedded afterwards land on it.
	AddPage() error

	// EmbedImage draws img on the current page at p. img must already be
	// oriented to match p and should be opaque.
	EmbedImage(img image.Image, p placement.Placement) error

	// WriteTo serializes the document.
	WriteTo(w io.Writer) (int64, error)
}

// FPDF is a Writer backed by fpdf. All pages share one size.
type FPDF struct {
	pdf    *fpdf.Fpdf
	width  units.Mm
	height units.Mm
	images int
	pages  int
}

// NewFPDF creates an empty document with pages of width x height.
func NewFPDF(width, height units.Mm) *FPDF {
	// fpdf takes the portrait size and swaps it for landscape.
	orientation := "P"
	short, long := width, height
	if width > height {
		orientation = "L"
		short, long = height, width
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: float64(short), Ht: float64(long)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(buildinfo.Creator(), true)
	return &FPDF{pdf: pdf, width: width, height: height}
}

// Size returns the page size.
func (d *FPDF) Size() (width, height units.Mm) { return d.width, d.height }

// Pages returns the number of pages added so far.
func (d *FPDF) Pages() int { return d.pages }

// AddPage implements Writer.
func (d *FPDF) AddPage() error {
	d.pdf.AddPage()
	d.pages++
	return d.pdf.Error()
}

// EmbedImage implements Writer. The image is stored losslessly as PNG.
func (d *FPDF) EmbedImage(img image.Image, p placement.Placement) error {
	if d.pages == 0 {
		return fmt.Errorf("embed %s: no page", p.Item.Image.Path)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", p.Item.Image.Path, err)
	}

	d.images++
	name := fmt.Sprintf("img%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)
	d.pdf.ImageOptions(name, float64(p.X), float64(p.Y), float64(p.Width), float64(p.Height), false, opts, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("embed %s: %w", p.Item.Image.Path, err)
	}
	return nil
}

// WriteTo implements Writer and io.WriterTo.
func (d *FPDF) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := d.pdf.Output(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

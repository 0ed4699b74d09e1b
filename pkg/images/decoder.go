package images

import (
	"image"

	"github.com/disintegration/imaging"

	// Additional input formats beyond the ones imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns a file into pixels.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// ImagingDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP files.
type ImagingDecoder struct {
	// AutoOrient applies the EXIF orientation tag of JPEG files.
	AutoOrient bool
}

// Decode opens and decodes the file at path.
func (d ImagingDecoder) Decode(path string) (image.Image, error) {
	if d.AutoOrient {
		return imaging.Open(path, imaging.AutoOrientation(true))
	}
	return imaging.Open(path)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (image.Image, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (image.Image, error) { return f(path) }

package images

import (
	"image"
	"image/color"
	"math"
)

// Flatten returns an opaque version of src composited over white.
//
// Each color channel becomes round((1-a)*255 + a*c) with a = alpha/255,
// computed on non-premultiplied values. Images that report themselves opaque
// are returned unchanged.
func Flatten(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return src
	}

	b := src.Bounds()
	dst := image.NewRGBA(b)

	if n, ok := src.(*image.NRGBA); ok {
		flattenNRGBA(dst, n)
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, overWhite(c))
		}
	}
	return dst
}

func flattenNRGBA(dst *image.RGBA, src *image.NRGBA) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			a := src.Pix[si+3]
			if a == 0xff {
				copy(dst.Pix[di:di+3], src.Pix[si:si+3])
			} else {
				af := float64(a) / 255
				dst.Pix[di+0] = blendWhite(src.Pix[si+0], af)
				dst.Pix[di+1] = blendWhite(src.Pix[si+1], af)
				dst.Pix[di+2] = blendWhite(src.Pix[si+2], af)
			}
			dst.Pix[di+3] = 0xff
			si += 4
			di += 4
		}
	}
}

func overWhite(c color.NRGBA) color.RGBA {
	if c.A == 0xff {
		return color.RGBA{c.R, c.G, c.B, 0xff}
	}
	a := float64(c.A) / 255
	return color.RGBA{blendWhite(c.R, a), blendWhite(c.G, a), blendWhite(c.B, a), 0xff}
}

func blendWhite(c uint8, a float64) uint8 {
	return uint8(math.Round((1-a)*255 + a*float64(c)))
}

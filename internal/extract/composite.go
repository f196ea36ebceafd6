package extract

import (
	"image"
	"image/color"
)

// Composite crops r out of src and keeps only the pixels the mask marks as
// occupied. Kept pixels are opaque with the source colour; all others are
// transparent black. r is in mask coordinates, i.e. relative to
// src.Bounds().Min, and is clipped to both mask and source. The returned
// image has its origin at (0,0).
func Composite(src image.Image, m *Mask, r image.Rectangle) *image.RGBA {
	origin := src.Bounds().Min
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height)).
		Intersect(src.Bounds().Sub(origin))

	w, h := r.Dx(), r.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	if s, ok := src.(*image.NRGBA); ok {
		compositeNRGBA(out, s, m, r)
		return out
	}

	for y := 0; y < h; y++ {
		my := r.Min.Y + y
		do := out.PixOffset(0, y)
		for x := 0; x < w; x++ {
			mx := r.Min.X + x
			if m.Bits[my*m.Width+mx] {
				c := color.NRGBAModel.Convert(src.At(origin.X+mx, origin.Y+my)).(color.NRGBA)
				out.Pix[do+0] = c.R
				out.Pix[do+1] = c.G
				out.Pix[do+2] = c.B
				out.Pix[do+3] = 0xff
			}
			do += 4
		}
	}

	return out
}

func compositeNRGBA(out *image.RGBA, src *image.NRGBA, m *Mask, r image.Rectangle) {
	origin := src.Rect.Min
	w := r.Dx()

	for y := 0; y < r.Dy(); y++ {
		my := r.Min.Y + y
		so := src.PixOffset(origin.X+r.Min.X, origin.Y+my)
		do := out.PixOffset(0, y)
		row := m.Bits[my*m.Width+r.Min.X : my*m.Width+r.Min.X+w]
		for _, on := range row {
			if on {
				out.Pix[do+0] = src.Pix[so+0]
				out.Pix[do+1] = src.Pix[so+1]
				out.Pix[do+2] = src.Pix[so+2]
				out.Pix[do+3] = 0xff
			}
			so += 4
			do += 4
		}
	}
}

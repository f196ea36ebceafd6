package extract

import (
	"image"
	"math"

	"github.com/golang/freetype/raster"
	"golang.org/x/image/math/fixed"
)

const (
	// clipPad keeps the clip window edges off the image, so the segments
	// clipping adds along them never touch a pixel.
	clipPad = 2

	// Coordinates stay within this magnitude so that any two of them are
	// less than 2^31 apart in 26.6 fixed point.
	maxCoord = 1 << 22
)

// Mask is a binary occupancy grid with the dimensions of a source image.
type Mask struct {
	Width, Height int
	Bits          []bool
}

func NewMask(w, h int) *Mask {
	w, h = max(w, 0), max(h, 0)
	return &Mask{Width: w, Height: h, Bits: make([]bool, w*h)}
}

func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

func (m *Mask) Count() (n int) {
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return
}

// Bounds returns the smallest rectangle holding every occupied cell.
func (m *Mask) Bounds() (r image.Rectangle) {
	first := true
	for y := 0; y < m.Height; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x, b := range row {
			if !b {
				continue
			}
			cell := image.Rect(x, y, x+1, y+1)
			if first {
				r, first = cell, false
			} else {
				r = r.Union(cell)
			}
		}
	}
	return
}

// maskPainter ORs every span that covers at least half of its cells into
// the mask, the same on/off quantization a monochrome painter applies.
type maskPainter struct {
	m *Mask
}

func (p maskPainter) Paint(ss []raster.Span, done bool) {
	for _, s := range ss {
		if s.Alpha < 0x8000 || s.Y < 0 || s.Y >= p.m.Height {
			continue
		}
		x0, x1 := max(s.X0, 0), min(s.X1, p.m.Width)
		row := p.m.Bits[s.Y*p.m.Width : (s.Y+1)*p.m.Width]
		for x := x0; x < x1; x++ {
			row[x] = true
		}
	}
}

// Rasterize fills each polygon into a mask of the given size and returns
// their union. Every polygon is filled on its own with the even-odd rule,
// so self-intersections leave holes where the outline crosses itself an
// even number of times, while overlaps between different polygons stay
// filled. Polygons with fewer than three points fill nothing. Vertices may
// lie outside the mask; they are clipped.
func Rasterize(polys [][]image.Point, size image.Point) *Mask {
	m := NewMask(size.X, size.Y)
	if m.Width == 0 || m.Height == 0 {
		return m
	}

	r := raster.NewRasterizer(m.Width, m.Height)
	r.UseNonZeroWinding = false
	p := maskPainter{m: m}
	win := clipWindow{
		x0: -clipPad, y0: -clipPad,
		x1: float64(m.Width + clipPad), y1: float64(m.Height + clipPad),
	}

	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}

		pts := win.clip(poly)
		if len(pts) < 3 {
			continue
		}

		r.Clear()
		r.Start(toFixed(pts[0]))
		for _, pt := range pts[1:] {
			r.Add1(toFixed(pt))
		}
		r.Add1(toFixed(pts[0]))
		r.Rasterize(p)
	}

	return m
}

type vec struct{ x, y float64 }

// clipWindow cuts polygons down to a rectangle slightly larger than the
// image before they reach the rasterizer, whose per-edge cost grows with
// edge length. Inside the rectangle the even-odd fill is unchanged.
type clipWindow struct {
	x0, y0, x1, y1 float64
}

func (w clipWindow) clip(poly []image.Point) []vec {
	pts := make([]vec, len(poly))
	for i, p := range poly {
		pts[i] = vec{float64(p.X), float64(p.Y)}
	}

	pts = clipAgainst(pts, func(v vec) bool { return v.x >= w.x0 }, func(a, b vec) vec { return crossX(a, b, w.x0) })
	pts = clipAgainst(pts, func(v vec) bool { return v.x <= w.x1 }, func(a, b vec) vec { return crossX(a, b, w.x1) })
	pts = clipAgainst(pts, func(v vec) bool { return v.y >= w.y0 }, func(a, b vec) vec { return crossY(a, b, w.y0) })
	pts = clipAgainst(pts, func(v vec) bool { return v.y <= w.y1 }, func(a, b vec) vec { return crossY(a, b, w.y1) })
	return pts
}

// clipAgainst is one Sutherland-Hodgman pass over a single window edge.
func clipAgainst(in []vec, inside func(vec) bool, cross func(a, b vec) vec) []vec {
	if len(in) == 0 {
		return nil
	}

	out := make([]vec, 0, len(in)+4)
	prev := in[len(in)-1]
	for _, cur := range in {
		ci, pi := inside(cur), inside(prev)
		if ci != pi {
			out = append(out, cross(prev, cur))
		}
		if ci {
			out = append(out, cur)
		}
		prev = cur
	}
	return out
}

func crossX(a, b vec, x float64) vec {
	t := (x - a.x) / (b.x - a.x)
	return vec{x, a.y + t*(b.y-a.y)}
}

func crossY(a, b vec, y float64) vec {
	t := (y - a.y) / (b.y - a.y)
	return vec{a.x + t*(b.x-a.x), y}
}

func toFixed(v vec) fixed.Point26_6 {
	return fixed.Point26_6{X: toInt26_6(v.x), Y: toInt26_6(v.y)}
}

func toInt26_6(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(clampFloat(f, -maxCoord, maxCoord) * 64))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

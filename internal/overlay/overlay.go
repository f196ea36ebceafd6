// Package overlay draws an annotation's polygons and cut region on top of
// its source image, for eyeballing what the extractor will cut.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
)

var (
	PolygonFill   = color.RGBA{0, 96, 0, 96}
	PolygonStroke = color.RGBA{0, 255, 0, 255}
	RegionStroke  = color.RGBA{255, 255, 0, 255}
)

// Draw returns a copy of src with every polygon filled translucently and
// outlined, and the region boxed. Coordinates are relative to
// src.Bounds().Min; the result has its origin at (0,0).
func Draw(src image.Image, polys [][]image.Point, region image.Rectangle) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetLineWidth(1)

	for _, poly := range polys {
		if len(poly) < 2 {
			continue
		}

		gc.BeginPath()
		gc.MoveTo(float64(poly[0].X), float64(poly[0].Y))
		for _, p := range poly[1:] {
			gc.LineTo(float64(p.X), float64(p.Y))
		}
		gc.Close()

		gc.SetFillColor(PolygonFill)
		gc.SetStrokeColor(PolygonStroke)
		gc.FillStroke()
	}

	if !region.Empty() {
		gc.BeginPath()
		draw2dkit.Rectangle(gc,
			float64(region.Min.X)+0.5, float64(region.Min.Y)+0.5,
			float64(region.Max.X)-0.5, float64(region.Max.Y)-0.5)
		gc.SetStrokeColor(RegionStroke)
		gc.Stroke()
	}

	return dst
}

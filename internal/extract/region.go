package extract

import "image"

// BoundingRegion returns the half-open box spanned by every vertex of every
// polygon, clipped to an image of the given size. A polygon whose corners
// sit at 10 and 20 yields [10,20), matching the cells Rasterize fills.
// ErrEmptyRegion means there is nothing to cut: no vertices at all, or a
// box that misses the image or has no area.
func BoundingRegion(polys [][]image.Point, size image.Point) (image.Rectangle, error) {
	var bnd image.Rectangle
	found := false

	for _, poly := range polys {
		for _, p := range poly {
			if !found {
				bnd = image.Rectangle{Min: p, Max: p}
				found = true
				continue
			}

			bnd.Min.X = min(bnd.Min.X, p.X)
			bnd.Min.Y = min(bnd.Min.Y, p.Y)
			bnd.Max.X = max(bnd.Max.X, p.X)
			bnd.Max.Y = max(bnd.Max.Y, p.Y)
		}
	}

	if !found {
		return image.Rectangle{}, ErrEmptyRegion
	}

	bnd = bnd.Intersect(image.Rectangle{Max: size})
	if bnd.Empty() {
		return image.Rectangle{}, ErrEmptyRegion
	}

	return bnd, nil
}

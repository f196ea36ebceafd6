package coco

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
)

// HasPolygons reports whether the segmentation field holds a non-empty
// polygon list. Omitted, null, empty and RLE segmentations do not.
func (a Annotation) HasPolygons() bool {
	seg := bytes.TrimSpace(a.Segmentation)
	if len(seg) == 0 || seg[0] != '[' {
		return false
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(seg, &raw); err != nil {
		return false
	}

	return len(raw) > 0
}

// Polygons decodes the flat [x1,y1,x2,y2,...] arrays of the segmentation
// field. Coordinates are truncated toward zero; a trailing odd coordinate
// is dropped. Non polygon segmentations yield nil.
func (a Annotation) Polygons() ([][]image.Point, error) {
	seg := bytes.TrimSpace(a.Segmentation)
	if len(seg) == 0 || seg[0] != '[' {
		return nil, nil
	}

	var flat [][]float64
	if err := json.Unmarshal(seg, &flat); err != nil {
		return nil, fmt.Errorf("annotation %d: bad polygon list: %w", a.ID, err)
	}

	ret := make([][]image.Point, 0, len(flat))
	for _, coords := range flat {
		ret = append(ret, FlatToPolygon(coords))
	}

	return ret, nil
}

func FlatToPolygon(coords []float64) []image.Point {
	poly := make([]image.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		poly = append(poly, image.Point{X: int(coords[i]), Y: int(coords[i+1])})
	}

	return poly
}

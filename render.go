package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	http "github.com/valyala/fasthttp"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/extract"
	"github.com/model-collapse/obj-extr/internal/overlay"
)

func (s *server) lookup(c *http.RequestCtx) (a coco.Annotation, ok bool) {
	id, err := c.QueryArgs().GetUint("id")
	if err != nil {
		c.Error("id must be a non-negative integer", http.StatusBadRequest)
		return
	}

	if a, ok = s.anns[int64(id)]; !ok {
		c.Error("no such annotation", http.StatusNotFound)
	}
	return
}

func (s *server) serveCutout(c *http.RequestCtx) {
	a, ok := s.lookup(c)
	if !ok {
		return
	}

	cut, err := s.worker.Extract(a)
	if err != nil {
		s.log.Warn("preview failed", "annotation", a.ID, "code", extract.Code(err), "err", err)
		c.Error(err.Error(), statusFor(err))
		return
	}

	writePNG(c, cut.Image)
}

func (s *server) serveOverlay(c *http.RequestCtx) {
	a, ok := s.lookup(c)
	if !ok {
		return
	}

	path, _, err := s.worker.Resolver.Resolve(a)
	if err != nil {
		c.Error(err.Error(), statusFor(err))
		return
	}

	src, err := s.worker.Loader.Load(path)
	if err != nil {
		c.Error(err.Error(), statusFor(extract.ErrImageLoad))
		return
	}

	polys, err := a.Polygons()
	if err != nil {
		err = fmt.Errorf("%w: %v", extract.ErrNoSegmentation, err)
		c.Error(err.Error(), statusFor(err))
		return
	}

	// Region errors only mean there is no box to draw.
	region, _ := extract.BoundingRegion(polys, src.Bounds().Size())

	writePNG(c, overlay.Draw(src, polys, region))
}

// serveList returns the cutouts already written, in natural order.
func (s *server) serveList(c *http.RequestCtx) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.Error(err.Error(), http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	c.SetContentType("application/json")
	if err := json.NewEncoder(c).Encode(names); err != nil {
		s.log.Error("encode listing", "err", err)
	}
}

func writePNG(c *http.RequestCtx, img image.Image) {
	c.SetContentType("image/png")
	if err := png.Encode(c, img); err != nil {
		c.Error(err.Error(), http.StatusInternalServerError)
	}
}

func statusFor(err error) int {
	switch extract.Code(err) {
	case extract.CodeUnknownImage:
		return http.StatusNotFound
	case extract.CodeNoSegmentation, extract.CodeEmptyRegion:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

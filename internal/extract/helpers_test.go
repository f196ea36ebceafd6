package extract

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/model-collapse/obj-extr/internal/coco"
)

func rect(x0, y0, x1, y1 int) []image.Point {
	return []image.Point{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}}
}

func ann(id, imageID, categoryID int64, seg string) coco.Annotation {
	a := coco.Annotation{ID: id, ImageID: imageID, CategoryID: categoryID}
	if seg != "" {
		a.Segmentation = json.RawMessage(seg)
	}
	return a
}

// gradient returns an opaque NRGBA image whose colour encodes position.
func gradient(r image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

type memLoader struct {
	images map[string]image.Image
}

func (l *memLoader) Load(path string) (image.Image, error) {
	img, ok := l.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return img, nil
}

type panicLoader struct{}

func (panicLoader) Load(path string) (image.Image, error) {
	panic("decoder blew up")
}

type memWriter struct {
	mu    sync.Mutex
	files map[string]image.Image
	fail  error
}

func newMemWriter() *memWriter {
	return &memWriter{files: map[string]image.Image{}}
}

func (w *memWriter) Write(path string, img image.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail != nil {
		return w.fail
	}
	if _, dup := w.files[path]; dup {
		return fmt.Errorf("%s written twice", path)
	}
	w.files[path] = img
	return nil
}

type outcome struct {
	id    int64
	label string
	path  string
	err   error
}

type recorder struct {
	mu      sync.Mutex
	saved   []outcome
	skipped []outcome
}

func (r *recorder) Saved(a coco.Annotation, label, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, outcome{id: a.ID, label: label, path: path})
}

func (r *recorder) Skipped(a coco.Annotation, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, outcome{id: a.ID, err: err})
}

package extract

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/logging"
)

// Loader decodes the source image at path.
type Loader interface {
	Load(path string) (image.Image, error)
}

// Writer persists a cutout at path.
type Writer interface {
	Write(path string, img image.Image) error
}

// Cutout is one extracted object.
type Cutout struct {
	Annotation coco.Annotation
	Label      string
	SourcePath string
	Polygons   [][]image.Point
	Region     image.Rectangle
	Image      *image.RGBA
}

// Worker runs the per-annotation pipeline. All fields are read-only while
// batches run, so a single Worker may drive every partition; the images,
// masks and cutouts it allocates never outlive one annotation.
type Worker struct {
	Resolver  *Resolver
	Loader    Loader
	Writer    Writer
	OutputDir string
	Observer  Observer
	Log       *logging.Logger
}

var discardLog = logging.New("extract", io.Discard)

func (w *Worker) logger() *logging.Logger {
	if w.Log == nil {
		return discardLog
	}
	return w.Log
}

// Extract resolves, loads, masks and crops one annotation without writing
// anything.
func (w *Worker) Extract(a coco.Annotation) (*Cutout, error) {
	path, label, err := w.Resolver.Resolve(a)
	if err != nil {
		return nil, err
	}

	img, err := w.Loader.Load(path)
	if err == nil && img == nil {
		err = fmt.Errorf("no image decoded")
	}
	if err != nil {
		return nil, fmt.Errorf("annotation %d: %s: %w: %v", a.ID, path, ErrImageLoad, err)
	}

	if !a.HasPolygons() {
		return nil, fmt.Errorf("annotation %d: %w", a.ID, ErrNoSegmentation)
	}

	polys, err := a.Polygons()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSegmentation, err)
	}

	size := img.Bounds().Size()
	region, err := BoundingRegion(polys, size)
	if err != nil {
		return nil, fmt.Errorf("annotation %d: %w", a.ID, err)
	}

	mask := Rasterize(polys, size)

	return &Cutout{
		Annotation: a,
		Label:      label,
		SourcePath: path,
		Polygons:   polys,
		Region:     region,
		Image:      Composite(img, mask, region),
	}, nil
}

// Process extracts one annotation, writes the cutout and reports the
// outcome to the observer. A panic is contained to this annotation.
func (w *Worker) Process(a coco.Annotation) (err error) {
	defer func() {
		if e := recover(); e != nil {
			w.logger().Error("panic", "annotation", a.ID, "panic", e, "stack", string(debug.Stack()))
			err = fmt.Errorf("annotation %d: %w: %v", a.ID, ErrInternal, e)
		}
		if err != nil && w.Observer != nil {
			w.Observer.Skipped(a, err)
		}
	}()

	c, err := w.Extract(a)
	if err != nil {
		return err
	}

	path := filepath.Join(w.OutputDir, OutputName(c.Label, a.ID))
	if err := w.Writer.Write(path, c.Image); err != nil {
		return fmt.Errorf("annotation %d: %s: %w: %v", a.ID, path, ErrWrite, err)
	}

	if w.Observer != nil {
		w.Observer.Saved(a, c.Label, path)
	}
	return nil
}

// Run processes one partition in order and returns how many cutouts were
// written. It stops picking up annotations once ctx is done.
func (w *Worker) Run(ctx context.Context, id int, part []coco.Annotation) (saved int) {
	w.logger().Info("worker started", "worker", id, "annotations", len(part))

	for i, a := range part {
		if ctx.Err() != nil {
			w.logger().Warn("worker cancelled", "worker", id, "remaining", len(part)-i)
			break
		}

		if w.Process(a) == nil {
			saved++
		}
	}

	w.logger().Info("worker finished", "worker", id, "saved", saved)
	return
}

var labelReplacer = strings.NewReplacer("/", "_", "\\", "_")

// OutputName is the cutout file name for an annotation. Annotation ids are
// unique, so names never collide.
func OutputName(label string, annotationID int64) string {
	return fmt.Sprintf("%s_%d.png", labelReplacer.Replace(label), annotationID)
}

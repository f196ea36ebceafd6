package extract

import (
	"fmt"
	"path/filepath"

	"github.com/model-collapse/obj-extr/internal/coco"
)

// UnknownLabel names cutouts whose category id has no entry.
const UnknownLabel = "unknown"

// Resolver maps annotations to source image paths and category labels.
// Its indexes are never written after construction, so one Resolver may
// be shared by every worker.
type Resolver struct {
	ImageDir   string
	Images     coco.ImageIndex
	Categories coco.CategoryIndex
}

func NewResolver(imageDir string, doc *coco.AnnotationFile) *Resolver {
	return &Resolver{
		ImageDir:   imageDir,
		Images:     coco.BuildFileNameIndex(doc.Images),
		Categories: coco.BuildCategoryIndex(doc.Categories),
	}
}

func (r *Resolver) Resolve(a coco.Annotation) (imagePath, label string, err error) {
	fn, ok := r.Images[a.ImageID]
	if !ok {
		return "", "", fmt.Errorf("annotation %d: image id %d: %w", a.ID, a.ImageID, ErrUnknownImage)
	}

	return filepath.Join(r.ImageDir, fn), r.Label(a.CategoryID), nil
}

func (r *Resolver) Label(categoryID int64) string {
	if name := r.Categories[categoryID]; name != "" {
		return name
	}
	return UnknownLabel
}

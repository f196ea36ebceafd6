// Package imageio loads source images and writes cutouts for the
// extractor.
package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Loader decodes any registered format (jpeg, png, gif, bmp, tiff, webp)
// into an *image.NRGBA with its origin at (0,0).
type Loader struct {
	// AutoOrient applies the EXIF orientation tag of JPEG sources.
	AutoOrient bool
}

func (l Loader) Load(path string) (image.Image, error) {
	var opts []imaging.DecodeOption
	if l.AutoOrient {
		opts = append(opts, imaging.AutoOrientation(true))
	}

	img, err := imaging.Open(path, opts...)
	if err != nil {
		return nil, err
	}

	return imaging.Clone(img), nil
}

// PNGWriter encodes cutouts as PNG, keeping the alpha channel.
type PNGWriter struct{}

func (PNGWriter) Write(path string, img image.Image) error {
	if ext := filepath.Ext(path); ext != ".png" {
		return fmt.Errorf("cutouts must be written as .png, got %q", ext)
	}
	return imaging.Save(img, path)
}

// EnsureDir creates the output directory up front, so workers never race
// to create it.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}

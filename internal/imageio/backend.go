//go:build !gocv

package imageio

import "github.com/model-collapse/obj-extr/internal/extract"

// NewLoader returns the image loader for this build.
func NewLoader() extract.Loader { return Loader{AutoOrient: true} }

// NewWriter returns the cutout writer for this build.
func NewWriter() extract.Writer { return PNGWriter{} }

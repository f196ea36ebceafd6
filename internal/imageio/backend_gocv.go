//go:build gocv

package imageio

import "github.com/model-collapse/obj-extr/internal/extract"

func NewLoader() extract.Loader { return CVLoader{} }

func NewWriter() extract.Writer { return CVWriter{} }

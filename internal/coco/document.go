// Package coco loads COCO-style annotation documents and builds the
// read-only lookup tables the extractor shares between workers.
package coco

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrDocumentUnreadable is returned when the annotation document is missing,
// empty or not valid JSON. It aborts a whole run.
var ErrDocumentUnreadable = errors.New("annotation document unreadable")

type ImageInfo struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Annotation is one labelled object instance. Segmentation is kept raw
// because COCO also stores crowd regions as RLE objects, which carry no
// polygon data for our purposes.
type Annotation struct {
	ID           int64           `json:"id"`
	ImageID      int64           `json:"image_id"`
	CategoryID   int64           `json:"category_id"`
	Segmentation json.RawMessage `json:"segmentation,omitempty"`
}

type AnnotationFile struct {
	Images      []ImageInfo  `json:"images"`
	Categories  []Category   `json:"categories"`
	Annotations []Annotation `json:"annotations"`
}

func LoadAnnotationFile(path string) (ret *AnnotationFile, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	return ParseAnnotationFile(data)
}

// ParseAnnotationFile decodes an in-memory annotation document.
func ParseAnnotationFile(data []byte) (ret *AnnotationFile, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDocumentUnreadable)
	}

	if err = json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	if ret == nil {
		return nil, fmt.Errorf("%w: null document", ErrDocumentUnreadable)
	}

	return
}

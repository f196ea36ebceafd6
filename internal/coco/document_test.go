package coco

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "images": [{"id": 1, "file_name": "a.jpg", "width": 100, "height": 80},
             {"id": 2, "file_name": "b.jpg"}],
  "categories": [{"id": 7, "name": "bottle"}],
  "annotations": [
    {"id": 10, "image_id": 1, "category_id": 7, "segmentation": [[10, 10, 10.9, 20, 20, 20.5, 20, 10]]},
    {"id": 11, "image_id": 2, "category_id": 8, "segmentation": []},
    {"id": 12, "image_id": 2, "category_id": 7, "segmentation": {"counts": [1, 2], "size": [4, 4]}},
    {"id": 13, "image_id": 2, "category_id": 7}
  ]
}`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annotations.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAnnotationFile(t *testing.T) {
	doc, err := LoadAnnotationFile(writeDoc(t, sampleDoc))
	require.NoError(t, err)

	assert.Len(t, doc.Images, 2)
	assert.Len(t, doc.Categories, 1)
	require.Len(t, doc.Annotations, 4)
	assert.Equal(t, int64(10), doc.Annotations[0].ID)
	assert.Equal(t, int64(1), doc.Annotations[0].ImageID)
	assert.Equal(t, int64(7), doc.Annotations[0].CategoryID)
}

func TestLoadAnnotationFile_Unreadable(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadAnnotationFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadAnnotationFile(writeDoc(t, "  \n"))
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := LoadAnnotationFile(writeDoc(t, "{not json"))
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})

	t.Run("null", func(t *testing.T) {
		_, err := ParseAnnotationFile([]byte("null"))
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})
}

func TestIndexes(t *testing.T) {
	doc, err := ParseAnnotationFile([]byte(sampleDoc))
	require.NoError(t, err)

	imgs := BuildFileNameIndex(doc.Images)
	assert.Equal(t, ImageIndex{1: "a.jpg", 2: "b.jpg"}, imgs)

	cats := BuildCategoryIndex(doc.Categories)
	assert.Equal(t, CategoryIndex{7: "bottle"}, cats)

	anns := BuildAnnotationIndex(doc.Annotations)
	assert.Len(t, anns, 4)
	assert.Equal(t, int64(2), anns[12].ImageID)
}

func TestPolygons(t *testing.T) {
	doc, err := ParseAnnotationFile([]byte(sampleDoc))
	require.NoError(t, err)

	polys, err := doc.Annotations[0].Polygons()
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.Equal(t, []image.Point{{10, 10}, {10, 20}, {20, 20}, {20, 10}}, polys[0])
	assert.True(t, doc.Annotations[0].HasPolygons())

	for _, a := range doc.Annotations[1:] {
		polys, err := a.Polygons()
		assert.NoError(t, err, "annotation %d", a.ID)
		assert.Empty(t, polys, "annotation %d", a.ID)
		assert.False(t, a.HasPolygons(), "annotation %d", a.ID)
	}
}

func TestPolygons_Malformed(t *testing.T) {
	a := Annotation{ID: 3, Segmentation: []byte(`[["x", 1]]`)}
	_, err := a.Polygons()
	assert.Error(t, err)
}

func TestFlatToPolygon_OddLength(t *testing.T) {
	assert.Equal(t, []image.Point{{1, 2}, {3, 4}}, FlatToPolygon([]float64{1, 2, 3, 4, 5}))
	assert.Empty(t, FlatToPolygon(nil))
}

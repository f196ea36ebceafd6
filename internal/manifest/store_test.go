package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_BusyTimeout(t *testing.T) {
	s, _ := openTemp(t)

	var ms int
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&ms))
	assert.Equal(t, 5000, ms)
}

func TestOpen_Unopenable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "manifest.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy timeout")
}

func TestStore_RecordsOutcomes(t *testing.T) {
	s, _ := openTemp(t)
	require.NotEmpty(t, s.RunID())

	s.Saved(coco.Annotation{ID: 1, ImageID: 10, CategoryID: 7}, "bottle", "out/bottle_1.png")
	s.Skipped(coco.Annotation{ID: 2, ImageID: 11, CategoryID: 7},
		fmt.Errorf("annotation 2: %w", extract.ErrUnknownImage))
	s.Skipped(coco.Annotation{ID: 3, ImageID: 10, CategoryID: 7},
		fmt.Errorf("annotation 3: %w", extract.ErrNoSegmentation))
	require.NoError(t, s.Err())

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{
		RunID: s.RunID(), AnnotationID: 1, ImageID: 10, CategoryID: 7,
		Label: "bottle", Status: StatusSaved, OutputPath: "out/bottle_1.png",
	}, entries[0])
	assert.Equal(t, StatusSkipped, entries[1].Status)
	assert.Equal(t, extract.CodeUnknownImage, entries[1].Code)
	assert.Contains(t, entries[1].Detail, "image id not found")
	assert.Equal(t, extract.CodeNoSegmentation, entries[2].Code)

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"saved":                   1,
		"skipped:UNKNOWN_IMAGE":   1,
		"skipped:NO_SEGMENTATION": 1,
	}, summary)
}

func TestStore_RunsAreSeparate(t *testing.T) {
	first, path := openTemp(t)
	first.Saved(coco.Annotation{ID: 1}, "a", "out/a_1.png")

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, first.RunID(), second.RunID())

	second.Saved(coco.Annotation{ID: 2}, "a", "out/a_2.png")
	second.Saved(coco.Annotation{ID: 3}, "a", "out/a_3.png")

	summary, err := second.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"saved": 2}, summary)
}

func TestStore_ConcurrentObservers(t *testing.T) {
	s, _ := openTemp(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				a := coco.Annotation{ID: int64(w*100 + i)}
				if i%5 == 0 {
					s.Skipped(a, errors.New("boom"))
				} else {
					s.Saved(a, "x", "out/x.png")
				}
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, s.Err())
	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"saved": 160, "skipped:INTERNAL": 40}, summary)
}

func TestStore_ErrAfterClose(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Close())

	s.Saved(coco.Annotation{ID: 1}, "a", "out/a_1.png")
	assert.Error(t, s.Err())
}

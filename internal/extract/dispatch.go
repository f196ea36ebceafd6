package extract

import (
	"context"
	"sync"

	"github.com/model-collapse/obj-extr/internal/coco"
)

const DefaultWorkers = 8

// BatchRunner processes one partition. *Worker implements it.
type BatchRunner interface {
	Run(ctx context.Context, id int, part []coco.Annotation) int
}

// Partition deals annotations round robin: annotation i goes to partition
// i mod n. Every annotation lands in exactly one partition, input order is
// kept within each, and sizes differ by at most one. n <= 0 means
// DefaultWorkers.
func Partition(anns []coco.Annotation, n int) [][]coco.Annotation {
	if n <= 0 {
		n = DefaultWorkers
	}

	parts := make([][]coco.Annotation, n)
	for i := range parts {
		parts[i] = make([]coco.Annotation, 0, (len(anns)-i+n-1)/n)
	}

	for i, a := range anns {
		parts[i%n] = append(parts[i%n], a)
	}

	return parts
}

// Dispatch runs one goroutine per partition, waits for all of them and
// returns the number of annotations examined, skipped ones included.
func Dispatch(ctx context.Context, anns []coco.Annotation, workerCount int, r BatchRunner) int {
	parts := Partition(anns, workerCount)

	wg := sync.WaitGroup{}
	wg.Add(len(parts))

	for i, part := range parts {
		go func(id int, part []coco.Annotation) {
			defer wg.Done()
			r.Run(ctx, id, part)
		}(i, part)
	}

	wg.Wait()
	return len(anns)
}

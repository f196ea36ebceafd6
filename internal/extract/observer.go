package extract

import (
	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/logging"
)

// Observer receives the outcome of every processed annotation. Workers call
// it concurrently.
type Observer interface {
	Saved(a coco.Annotation, label, path string)
	Skipped(a coco.Annotation, err error)
}

// LogObserver writes outcomes to a Logger. Expected skips only show up at
// debug level.
type LogObserver struct {
	Log *logging.Logger
}

func (o LogObserver) Saved(a coco.Annotation, label, path string) {
	o.Log.Info("saved", "annotation", a.ID, "label", label, "path", path)
}

func (o LogObserver) Skipped(a coco.Annotation, err error) {
	if Expected(err) {
		o.Log.Debug("skipped", "annotation", a.ID, "code", Code(err))
		return
	}
	o.Log.Warn("skipped", "annotation", a.ID, "code", Code(err), "err", err)
}

// Observers fans every outcome out to each member in order.
type Observers []Observer

func (obs Observers) Saved(a coco.Annotation, label, path string) {
	for _, o := range obs {
		o.Saved(a, label, path)
	}
}

func (obs Observers) Skipped(a coco.Annotation, err error) {
	for _, o := range obs {
		o.Skipped(a, err)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/config"
	"github.com/model-collapse/obj-extr/internal/extract"
	"github.com/model-collapse/obj-extr/internal/imageio"
	"github.com/model-collapse/obj-extr/internal/logging"
	"github.com/model-collapse/obj-extr/internal/manifest"
)

// run extracts every annotation of the configured document and returns
// how many were examined. Only an unreadable document, an unusable output
// dir or manifest, or cancellation make it fail; per-annotation problems
// are logged and skipped.
func run(ctx context.Context, cfg *config.Config, l *logging.Logger) (int, error) {
	doc, err := coco.LoadAnnotationFile(cfg.AnnotationPath)
	if err != nil {
		return 0, fmt.Errorf("cannot open annotations %s: %w", cfg.AnnotationPath, err)
	}

	l.Info("annotations loaded",
		"annotations", len(doc.Annotations),
		"images", len(doc.Images),
		"categories", len(doc.Categories))

	if err := imageio.EnsureDir(cfg.OutputDir); err != nil {
		return 0, err
	}

	obs := extract.Observers{extract.LogObserver{Log: l}}

	var store *manifest.Store
	if cfg.ManifestPath != "" {
		if store, err = manifest.Open(cfg.ManifestPath); err != nil {
			return 0, err
		}
		defer store.Close()
		obs = append(obs, store)
		l.Info("manifest opened", "path", cfg.ManifestPath, "run", store.RunID())
	}

	w := &extract.Worker{
		Resolver:  extract.NewResolver(cfg.ImageDir, doc),
		Loader:    imageio.NewLoader(),
		Writer:    imageio.NewWriter(),
		OutputDir: cfg.OutputDir,
		Observer:  obs,
		Log:       l,
	}

	n := extract.Dispatch(ctx, doc.Annotations, cfg.Workers, w)

	if store != nil {
		if err := store.Err(); err != nil {
			l.Warn("manifest incomplete", "err", err)
		}
		summary, err := store.Summary()
		if err != nil {
			l.Warn("manifest summary failed", "err", err)
		}
		for status, count := range summary {
			l.Info("manifest summary", "status", status, "count", count)
		}
	}

	if err := ctx.Err(); err != nil {
		return n, fmt.Errorf("interrupted after dispatch: %w", err)
	}
	return n, nil
}

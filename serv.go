package main

import (
	"log"

	http "github.com/valyala/fasthttp"

	"github.com/model-collapse/obj-extr/internal/coco"
	"github.com/model-collapse/obj-extr/internal/config"
	"github.com/model-collapse/obj-extr/internal/extract"
	"github.com/model-collapse/obj-extr/internal/imageio"
	"github.com/model-collapse/obj-extr/internal/logging"
)

// server previews single cutouts on demand, reusing the batch pipeline
// without writing anything.
type server struct {
	outputDir string
	worker    *extract.Worker
	anns      map[int64]coco.Annotation
	log       *logging.Logger
}

func newServer(cfg *config.Config, doc *coco.AnnotationFile, loader extract.Loader, l *logging.Logger) *server {
	return &server{
		outputDir: cfg.OutputDir,
		worker: &extract.Worker{
			Resolver: extract.NewResolver(cfg.ImageDir, doc),
			Loader:   loader,
			Log:      l,
		},
		anns: coco.BuildAnnotationIndex(doc.Annotations),
		log:  l,
	}
}

func initialize() (s *server, addr string, err error) {
	cfg, err := LoadConfig("./conf.json")
	if err != nil {
		return
	}

	doc, err := coco.LoadAnnotationFile(cfg.AnnotationPath)
	if err != nil {
		return
	}

	l := logging.NewLogger("serv")
	l.SetDebug(cfg.Debug)
	l.Info("annotations loaded", "annotations", len(doc.Annotations), "images", len(doc.Images))

	return newServer(cfg, doc, imageio.NewLoader(), l), cfg.ListenAddr, nil
}

func (s *server) handle(c *http.RequestCtx) {
	switch string(c.Path()) {
	case "/cutout":
		s.serveCutout(c)
	case "/overlay":
		s.serveOverlay(c)
	case "/cutouts":
		s.serveList(c)
	case "/healthz":
		c.WriteString("ok")
	default:
		c.Error("not found", http.StatusNotFound)
	}
}

func main() {
	s, addr, err := initialize()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Initialized")
	log.Printf("Serving on %s...", addr)
	if err := http.ListenAndServe(addr, s.handle); err != nil {
		log.Fatal(err)
	}
}

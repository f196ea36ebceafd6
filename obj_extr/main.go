package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/model-collapse/obj-extr/internal/config"
	"github.com/model-collapse/obj-extr/internal/logging"
)

var (
	configPath   string
	imageDir     string
	annPath      string
	outputDir    string
	manifestPath string
	workers      int
	debug        bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "JSON config file (optional)")
	flag.StringVar(&imageDir, "images", "", "Directory holding the source images")
	flag.StringVar(&annPath, "ann", "", "COCO annotation document")
	flag.StringVar(&outputDir, "out", "", "Directory the cutouts are written to")
	flag.StringVar(&manifestPath, "manifest", "", "sqlite manifest of per-annotation outcomes (optional)")
	flag.IntVar(&workers, "workers", config.DefaultWorkers, "Number of partitions processed in parallel")
	flag.BoolVar(&debug, "debug", false, "Log expected skips too")
}

// loadConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "images":
			cfg.ImageDir = imageDir
		case "ann":
			cfg.AnnotationPath = annPath
		case "out":
			cfg.OutputDir = outputDir
		case "manifest":
			cfg.ManifestPath = manifestPath
		case "workers":
			cfg.Workers = workers
		case "debug":
			cfg.Debug = debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file, using system environment")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	l := logging.NewLogger("obj_extr")
	l.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	n, err := run(ctx, cfg, l)
	stop()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Done: %d objects examined\n", n)
}

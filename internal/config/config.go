// Package config holds the settings of the cutout extractor and preview
// server: defaults, then an optional JSON file, then OBJEXTR_* environment
// variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultWorkers    = 8
	MaxWorkers        = 256
	DefaultListenAddr = "0.0.0.0:8093"
)

// Config holds extractor configuration
type Config struct {
	ImageDir       string `json:"image_dir"`
	AnnotationPath string `json:"annotation_path"`
	OutputDir      string `json:"output_dir"`
	Workers        int    `json:"workers"`

	// ManifestPath enables the sqlite run manifest when set.
	ManifestPath string `json:"manifest_path"`

	// ListenAddr is only used by the preview server.
	ListenAddr string `json:"listen_addr"`

	Debug bool `json:"debug"`
}

func Default() *Config {
	return &Config{
		ImageDir:       "images",
		AnnotationPath: "annotations.json",
		OutputDir:      "objs",
		Workers:        DefaultWorkers,
		ListenAddr:     DefaultListenAddr,
	}
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays the fields present in a JSON file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays OBJEXTR_* environment variables.
func (c *Config) ApplyEnv() {
	c.ImageDir = getEnvOrDefault("OBJEXTR_IMAGE_DIR", c.ImageDir)
	c.AnnotationPath = getEnvOrDefault("OBJEXTR_ANNOTATIONS", c.AnnotationPath)
	c.OutputDir = getEnvOrDefault("OBJEXTR_OUTPUT_DIR", c.OutputDir)
	c.Workers = getEnvAsIntOrDefault("OBJEXTR_WORKERS", c.Workers)
	c.ManifestPath = getEnvOrDefault("OBJEXTR_MANIFEST", c.ManifestPath)
	c.ListenAddr = getEnvOrDefault("OBJEXTR_LISTEN_ADDR", c.ListenAddr)
	c.Debug = getEnvAsBoolOrDefault("OBJEXTR_DEBUG", c.Debug)
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.ImageDir == "" {
		return fmt.Errorf("image_dir is required")
	}

	if c.AnnotationPath == "" {
		return fmt.Errorf("annotation_path is required")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

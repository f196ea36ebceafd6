package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/model-collapse/obj-extr/internal/config"
)

// LoadConfig reads .env, then the optional JSON file at path, then the
// OBJEXTR_* environment.
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file, using system environment")
	}

	if _, err := os.Stat(path); err != nil {
		path = ""
	}

	return config.Load(path)
}

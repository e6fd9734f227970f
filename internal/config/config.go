package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	InputDir  string
	OutputDir string
	DBPath    string

	// RouteClock is the HH:MM:SS time-of-day combined with a date found
	// in a track name when a track has no other time source.
	RouteClock string
}

// Load reads configuration from environment variables and .env, falling
// back to defaults suitable for a local data directory layout.
func Load() *Config {
	_ = godotenv.Load()

	inputDir := os.Getenv("INPUT_DIR")
	if inputDir == "" {
		inputDir = "data/input"
	}

	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "data/output"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(outputDir, "tracks.db")
	}

	routeClock := os.Getenv("ROUTE_CLOCK")
	if routeClock == "" {
		routeClock = "09:00:00"
	}

	return &Config{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		DBPath:     dbPath,
		RouteClock: routeClock,
	}
}

// Package config loads service configuration from the environment.
//
// A .env file in the working directory is loaded first when present, then
// individual variables override it. Every setting has a usable default so
// the service starts with no configuration at all.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the service.
type Config struct {
	// ServerPort is the TCP port the HTTP server listens on.
	ServerPort string

	// ProcessTimeout bounds how long a job may wait before detection is
	// skipped. Checked once before the detection pass, never mid-scan.
	ProcessTimeout time.Duration

	// JPEGQuality is the encoder quality (1-100) for processed output.
	JPEGQuality int

	// MaxWidth and MaxHeight cap processed image dimensions. Larger
	// results are downscaled preserving aspect ratio.
	MaxWidth  int
	MaxHeight int

	// MinImageWidth and MinImageHeight reject inputs too small to hold a
	// readable plate.
	MinImageWidth  int
	MinImageHeight int

	// MaxUploadMB caps the size of an uploaded image in megabytes.
	MaxUploadMB int

	// ImageSaveEnabled turns artifact saving on or off. When enabled,
	// originals and processed images are written under ImageSavePath.
	ImageSaveEnabled bool
	ImageSavePath    string

	// TesseractLanguage is the OCR language code (e.g. "eng", "por").
	TesseractLanguage string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults for anything unset.
func Load() *Config {
	loadDotenv()

	timeoutSec := getEnvInt("PROCESS_TIMEOUT_SECONDS", 30)

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ProcessTimeout:    time.Duration(timeoutSec) * time.Second,
		JPEGQuality:       getEnvInt("JPEG_QUALITY", 85),
		MaxWidth:          getEnvInt("MAX_IMAGE_WIDTH", 1920),
		MaxHeight:         getEnvInt("MAX_IMAGE_HEIGHT", 1080),
		MinImageWidth:     getEnvInt("MIN_IMAGE_WIDTH", 100),
		MinImageHeight:    getEnvInt("MIN_IMAGE_HEIGHT", 100),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 10),
		ImageSaveEnabled:  getEnvBool("IMAGE_SAVE_ENABLED", true),
		ImageSavePath:     getEnv("IMAGE_SAVE_PATH", "./processed_images"),
		TesseractLanguage: getEnv("TESSERACT_LANGUAGE", "eng"),
	}
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env file: %v", err)
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %d", value, key, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %v", value, key, fallback)
		return fallback
	}
	return b
}

// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds runtime configuration for the fitting room. Values come from
// environment variables (a .env file is honored when present) with sensible
// defaults for local use.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// ImageRoot is the directory holding photos and derived assets.
	// Uploads land in ImageRoot, avatars in ImageRoot/avatars, clothing
	// images in ImageRoot/clothing.
	ImageRoot string

	// CatalogPath is the clothing catalog CSV file.
	CatalogPath string

	// MaxUploadMB caps the size of an uploaded photo.
	MaxUploadMB int

	// MinScale and MaxScale bound the clothing scale control.
	MinScale float64
	MaxScale float64

	// ThumbnailHeight is the pixel height of catalog thumbnails.
	ThumbnailHeight int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment.
func Load() *Config {
	cfg := &Config{
		Addr:            getEnv("FITTING_ADDR", "0.0.0.0:8080"),
		ImageRoot:       getEnv("FITTING_IMAGE_ROOT", "images"),
		CatalogPath:     getEnv("FITTING_CATALOG", "clothing_data.csv"),
		MaxUploadMB:     getEnvInt("FITTING_MAX_UPLOAD_MB", 10),
		MinScale:        getEnvFloat("FITTING_MIN_SCALE", 0.1),
		MaxScale:        getEnvFloat("FITTING_MAX_SCALE", 5.0),
		ThumbnailHeight: getEnvInt("FITTING_THUMBNAIL_HEIGHT", 96),
		LogLevel:        getEnv("FITTING_LOG_LEVEL", "info"),
	}
	cfg.Validate()
	return cfg
}

// Validate clamps values to safe ranges.
func (c *Config) Validate() {
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 10
	}
	if c.MinScale <= 0 {
		c.MinScale = 0.05
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = c.MinScale
	}
	if c.MaxScale > 10 {
		c.MaxScale = 10
	}
	if c.ThumbnailHeight <= 0 {
		c.ThumbnailHeight = 96
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

package config

import (
	"os"
	"strconv"

	"dwiverify/internal/errors"
)

// Config represents the complete engine configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Validation ValidationConfig
}

// DatabaseConfig holds outcome persistence settings. An empty URL disables
// persistence; the run still completes and logs its summary.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds the outcome query API settings
type ServerConfig struct {
	Port string
}

// ValidationConfig holds the comparison thresholds and runner settings
type ValidationConfig struct {
	// ArtifactRoot is the directory holding one subdirectory of converted
	// artifacts per pipeline configuration.
	ArtifactRoot string
	// AngularToleranceDeg is the per-fiducial gradient pass threshold.
	AngularToleranceDeg float64
	// StreamlineMargin is the orientation-confidence noise tolerance in
	// millimetres of mean streamline length.
	StreamlineMargin float64
	// Concurrency caps parallel cell evaluations.
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Validation: ValidationConfig{
			ArtifactRoot:        getEnv("ARTIFACT_ROOT", "scratch"),
			AngularToleranceDeg: 5,
			StreamlineMargin:    0,
			Concurrency:         8,
		},
	}

	var err error
	if cfg.Validation.AngularToleranceDeg, err = getFloat("ANGULAR_TOLERANCE_DEG", cfg.Validation.AngularToleranceDeg); err != nil {
		return nil, err
	}
	if cfg.Validation.AngularToleranceDeg <= 0 {
		return nil, errors.ConfigInvalid("ANGULAR_TOLERANCE_DEG must be positive")
	}
	if cfg.Validation.StreamlineMargin, err = getFloat("STREAMLINE_MARGIN", cfg.Validation.StreamlineMargin); err != nil {
		return nil, err
	}
	if cfg.Validation.Concurrency, err = getInt("CONCURRENCY", cfg.Validation.Concurrency); err != nil {
		return nil, err
	}
	if cfg.Validation.Concurrency < 1 {
		return nil, errors.ConfigInvalid("CONCURRENCY must be at least 1")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not numeric")
	}
	return parsed, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not an integer")
	}
	return parsed, nil
}

// Package config loads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the service runtime settings.
type Config struct {
	Port           string
	FuzzyThreshold float64
	LogLevel       string
}

// Load reads the environment (and .env when present) and applies defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:           "8084",
		FuzzyThreshold: 80,
		LogLevel:       "info",
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("FUZZY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 100 {
			cfg.FuzzyThreshold = f
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

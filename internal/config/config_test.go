package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FUZZY_THRESHOLD", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, 80.0, cfg.FuzzyThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FUZZY_THRESHOLD", "65.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 65.5, cfg.FuzzyThreshold)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsOutOfRangeThreshold(t *testing.T) {
	t.Setenv("FUZZY_THRESHOLD", "150")
	cfg := Load()
	assert.Equal(t, 80.0, cfg.FuzzyThreshold)
}

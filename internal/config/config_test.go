package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "eduviz/internal/errors"
)

// TestSaveLoadRoundTrip checks YAML and JSON round trips.
func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"eduviz.yaml", "eduviz.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			src := SampleConfig()
			src.RiskThreshold = 4.5
			src.ServerPort = 9090
			require.NoError(t, src.SaveFile(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, src.DataPath, loaded.DataPath)
			assert.Equal(t, 4.5, loaded.RiskThreshold)
			assert.Equal(t, 9090, loaded.ServerPort)
			assert.Equal(t, src.OutputDir, loaded.OutputDir)
		})
	}
}

// TestLoadFileUnsupportedExtension checks the format dispatch failure.
func TestLoadFileUnsupportedExtension(t *testing.T) {
	cfg := SampleConfig()
	err := cfg.SaveFile(filepath.Join(t.TempDir(), "eduviz.toml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

// TestValidate checks the value-range rules.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"threshold too low", func(c *Config) { c.RiskThreshold = 0.5 }, false},
		{"threshold too high", func(c *Config) { c.RiskThreshold = 11 }, false},
		{"negative min records", func(c *Config) { c.MinRecords = -1 }, false},
		{"bad port", func(c *Config) { c.ServerPort = 0 }, false},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SampleConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
			}
		})
	}
}

// TestLoadEnvDefaults checks the environment fallbacks.
func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("EDUVIZ_RISK_THRESHOLD", "4.0")
	t.Setenv("EDUVIZ_PORT", "3000")

	cfg := Load()
	assert.Equal(t, 4.0, cfg.RiskThreshold)
	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, 3, cfg.MinRecords)
	assert.Equal(t, "reports", cfg.OutputDir)
}

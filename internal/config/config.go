// Package config loads pipeline settings from the environment and from
// optional YAML or JSON config files.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "eduviz/internal/errors"
)

// Config carries the runtime settings of the pipeline.
type Config struct {
	DataPath      string  `json:"data_path" yaml:"data_path"`
	RiskThreshold float64 `json:"risk_threshold" yaml:"risk_threshold"`
	MinRecords    int     `json:"min_records" yaml:"min_records"`
	ServerPort    int     `json:"server_port" yaml:"server_port"`
	OutputDir     string  `json:"output_dir" yaml:"output_dir"`
	DatabaseURL   string  `json:"database_url,omitempty" yaml:"database_url,omitempty"`
}

// Load builds the config from environment variables, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		DataPath:      getEnvOrDefault("EDUVIZ_DATA_PATH", ""),
		RiskThreshold: getEnvFloat("EDUVIZ_RISK_THRESHOLD", 5.0),
		MinRecords:    getEnvInt("EDUVIZ_MIN_RECORDS", 3),
		ServerPort:    getEnvInt("EDUVIZ_PORT", 8080),
		OutputDir:     getEnvOrDefault("EDUVIZ_OUTPUT_DIR", "reports"),
		DatabaseURL:   getEnvOrDefault("EDUVIZ_DATABASE_URL", ""),
	}
}

// SampleConfig returns the starter config written by `config init`.
func SampleConfig() *Config {
	return &Config{
		DataPath:      "data/grades.csv",
		RiskThreshold: 5.0,
		MinRecords:    3,
		ServerPort:    8080,
		OutputDir:     "reports",
	}
}

// LoadFile reads a YAML or JSON config file (by extension) and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IOError("reading config "+path, err)
	}
	cfg := Load()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.ConfigInvalid("parsing YAML config: " + err.Error())
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.ConfigInvalid("parsing JSON config: " + err.Error())
		}
	default:
		return nil, apperrors.ConfigInvalid("unsupported config format: " + filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveFile writes the config as YAML or JSON depending on the extension.
func (c *Config) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		return apperrors.ConfigInvalid("unsupported config format: " + filepath.Ext(path))
	}
	if err != nil {
		return apperrors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.IOError("writing config "+path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.RiskThreshold < 1 || c.RiskThreshold > 10 {
		return apperrors.ConfigInvalid("risk_threshold must be between 1 and 10")
	}
	if c.MinRecords < 0 {
		return apperrors.ConfigInvalid("min_records must not be negative")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return apperrors.ConfigInvalid("server_port must be a valid TCP port")
	}
	if c.OutputDir == "" {
		return apperrors.ConfigInvalid("output_dir must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

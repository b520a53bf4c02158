// =============================================================================
// CSV to OFX/QIF Converter - Configuration Module
// =============================================================================
//
// This module loads the main application configuration (directories, default
// output format, logging). Per-institution mapping specifications are loaded
// separately by the mapping registry; the main config only says where to
// find them.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the global application configuration, loaded from config.yaml.
type Config struct {
	// InputDir is scanned for statement files in batch mode.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives generated OFX/QIF documents.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives copies of generated documents.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// MappingsDir contains per-institution mapping YAML files. These are
	// loaded on top of the built-in mappings and may shadow them by name.
	// Default: "./mappings"
	MappingsDir string `yaml:"mappings_dir"`

	// DefaultFormat is the output format used when --format is not given.
	// Valid values: "ofx", "qif". Default: "ofx"
	DefaultFormat string `yaml:"default_format"`

	// OutputNameFormat defines generated output file names.
	// Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {mapping}   - mapping name
	//   {format}    - output format (ofx/qif)
	// Default: "{mapping}_{timestamp}.{format}"
	OutputNameFormat string `yaml:"output_name_format"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// Load reads the configuration file, fills defaults, and ensures the
// configured directories exist. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputArchiveDir == "" {
		cfg.OutputArchiveDir = "./output_archive"
	}
	if cfg.MappingsDir == "" {
		cfg.MappingsDir = "./mappings"
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "ofx"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{mapping}_{timestamp}.{format}"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.DefaultFormat != "ofx" && cfg.DefaultFormat != "qif" {
		return fmt.Errorf("default_format must be ofx or qif, got %q", cfg.DefaultFormat)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug/info/warn/error, got %q", cfg.LogLevel)
	}

	return nil
}

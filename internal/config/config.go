// Package config provides configuration loading for the PDF extractor.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

const (
	// NativeDPI is the resolution of the PDF user space.
	NativeDPI = 72.0

	defaultRenderDPI      = 150.0
	defaultMinRenderBytes = 15000
)

// DefaultFigureKeywords trigger a full-page render when found in the
// lowercased page text.
var DefaultFigureKeywords = []string{"figure", "fig.", "chart", "graph", "diagram"}

// Config holds all configuration for the extractor.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExtractionConfig holds pipeline settings.
type ExtractionConfig struct {
	// Enhanced enables the figure heuristic and page rasterizer.
	Enhanced bool `yaml:"enhanced"`

	// RenderDPI is the resolution of figure page renders.
	RenderDPI float64 `yaml:"render_dpi"`

	// MinRenderBytes is the PNG size a render must exceed to be kept.
	MinRenderBytes int `yaml:"min_render_bytes"`

	FigureKeywords []string `yaml:"figure_keywords"`

	// StrictValidation makes the image reader reject non-conforming files
	// instead of repairing what it can.
	StrictValidation bool `yaml:"strict_validation"`
}

// LoggingConfig holds diagnostics settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// RenderScale returns the render scale factor relative to NativeDPI.
func (c ExtractionConfig) RenderScale() float64 {
	return c.RenderDPI / NativeDPI
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("validate config", err)
	}

	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Enhanced:       true,
			RenderDPI:      defaultRenderDPI,
			MinRenderBytes: defaultMinRenderBytes,
			FigureKeywords: append([]string(nil), DefaultFigureKeywords...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Extraction.RenderDPI <= 0 {
		return fmt.Errorf("render_dpi must be positive, got %v", c.Extraction.RenderDPI)
	}

	if c.Extraction.MinRenderBytes < 0 {
		return fmt.Errorf("min_render_bytes must not be negative, got %d", c.Extraction.MinRenderBytes)
	}

	if c.Extraction.Enhanced && len(c.Extraction.FigureKeywords) == 0 {
		return fmt.Errorf("figure_keywords must not be empty when enhanced extraction is enabled")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PDF_EXTRACTOR_ENHANCED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.ConfigError("PDF_EXTRACTOR_ENHANCED", err)
		}
		cfg.Extraction.Enhanced = b
	}

	if v := os.Getenv("PDF_EXTRACTOR_RENDER_DPI"); v != "" {
		dpi, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.ConfigError("PDF_EXTRACTOR_RENDER_DPI", err)
		}
		cfg.Extraction.RenderDPI = dpi
	}

	if v := os.Getenv("PDF_EXTRACTOR_MIN_RENDER_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError("PDF_EXTRACTOR_MIN_RENDER_BYTES", err)
		}
		cfg.Extraction.MinRenderBytes = n
	}

	if v := os.Getenv("PDF_EXTRACTOR_FIGURE_KEYWORDS"); v != "" {
		var keywords []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		cfg.Extraction.FigureKeywords = keywords
	}

	if v := os.Getenv("PDF_EXTRACTOR_STRICT_VALIDATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.ConfigError("PDF_EXTRACTOR_STRICT_VALIDATION", err)
		}
		cfg.Extraction.StrictValidation = b
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

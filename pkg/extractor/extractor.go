package extractor

import (
	"context"

	"github.com/spherical/pdf-content-extractor/internal/config"
	"github.com/spherical/pdf-content-extractor/internal/domain"
	"github.com/spherical/pdf-content-extractor/internal/extract"
	"github.com/spherical/pdf-content-extractor/internal/pdf"
)

// Re-export result types for public API
type (
	Result         = domain.ExtractionResult
	PageRecord     = domain.PageRecord
	ImageArtifact  = domain.ImageArtifact
	VisualArtifact = domain.VisualArtifact
	Config         = config.Config
	Logger         = domain.Logger
	LogConfig      = domain.LogConfig
)

// NewLogger creates a diagnostics logger for NewClientWithConfig.
var NewLogger = domain.NewLogger

// Client is the main entry point for the PDF extractor library
type Client struct {
	service *extract.Service
}

// NewClient creates a client from the default configuration with
// environment overrides applied.
func NewClient() (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg, nil)
}

// NewClientWithConfig creates a client with custom configuration. A nil
// logger writes diagnostics to stderr according to cfg.Logging.
func NewClientWithConfig(cfg *Config, logger *Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("invalid configuration", err)
	}

	if logger == nil {
		logger = domain.NewLogger(domain.LogConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	engine := pdf.NewEngine(pdf.Options{
		StrictValidation: cfg.Extraction.StrictValidation,
		Logger:           logger,
	})

	opts := extract.OptionsFromConfig(cfg.Extraction)
	opts.Logger = logger

	return &Client{service: extract.NewService(engine, opts)}, nil
}

// Extract pulls text, embedded images and, in enhanced mode, figure page
// renders out of the PDF at pdfPath. The returned result reports failures
// in its Error field; it is never nil.
func (c *Client) Extract(ctx context.Context, pdfPath string) *Result {
	return c.service.Extract(ctx, pdfPath)
}

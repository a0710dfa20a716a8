package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spherical/pdf-content-extractor/internal/config"
	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// Options configures a Service
type Options struct {
	// Enhanced enables the figure heuristic and page rasterizer
	Enhanced bool

	// RenderScale is the figure render scale relative to 72 DPI
	RenderScale float64

	// MinRenderBytes is the PNG size a render must exceed to be kept
	MinRenderBytes int

	// Detector decides whether a page gets rendered. Defaults to a
	// KeywordDetector over config.DefaultFigureKeywords.
	Detector FigureDetector

	// Logger receives per-image and per-page diagnostics
	Logger *domain.Logger

	// OnPage is called after each page with the number of pages done
	OnPage func(done, total int)
}

// DefaultOptions returns the enhanced pipeline with default thresholds.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig().Extraction)
}

// OptionsFromConfig maps extraction settings to service options.
func OptionsFromConfig(cfg config.ExtractionConfig) Options {
	return Options{
		Enhanced:       cfg.Enhanced,
		RenderScale:    cfg.RenderScale(),
		MinRenderBytes: cfg.MinRenderBytes,
		Detector:       NewKeywordDetector(cfg.FigureKeywords),
	}
}

// Service orchestrates the PDF extraction process
type Service struct {
	engine domain.Engine
	opts   Options
	logger *domain.Logger
}

// NewService creates a new extraction service
func NewService(engine domain.Engine, opts Options) *Service {
	if opts.RenderScale <= 0 {
		opts.RenderScale = config.DefaultConfig().Extraction.RenderScale()
	}
	if opts.Detector == nil {
		opts.Detector = NewKeywordDetector(config.DefaultFigureKeywords)
	}

	logger := opts.Logger
	if logger == nil {
		logger = domain.DefaultLogger
	}

	return &Service{
		engine: engine,
		opts:   opts,
		logger: logger.WithPrefix("extract"),
	}
}

// Extract runs the whole pipeline for one document. It never returns nil:
// failures that abort the document become an error envelope, everything
// scoped to a single image or page is logged and skipped.
func (s *Service) Extract(ctx context.Context, pdfPath string) (result *domain.ExtractionResult) {
	logger := s.logger.With("run_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected failure: %v", r)
			logger.Error().Err(err).Str("path", pdfPath).Msg("extraction aborted")
			result = errorResult(err)
		}
	}()

	logger.Debug().Str("path", pdfPath).Bool("enhanced", s.opts.Enhanced).Msg("starting extraction")

	records, err := s.walk(ctx, pdfPath, logger)
	if err != nil {
		logger.Error().Err(err).Str("path", pdfPath).Msg("extraction failed")
		return errorResult(err)
	}

	result = buildResult(records)
	logger.Debug().
		Int("pages", result.TotalPages).
		Int("images", result.TotalImages).
		Int("drawings", result.TotalDrawings).
		Msg("extraction complete")
	return result
}

// walk opens the document and builds one record per page in order. The
// document is closed on every return path.
func (s *Service) walk(ctx context.Context, pdfPath string, logger *domain.Logger) ([]domain.PageRecord, error) {
	doc, err := s.engine.Open(pdfPath)
	if err != nil {
		if !domain.IsType(err, domain.ErrorTypeDocumentOpen) {
			err = domain.DocumentOpenError("failed to open document", err)
		}
		return nil, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close document")
		}
	}()

	total := doc.NumPages()
	records := make([]domain.PageRecord, 0, total)

	for i := 0; i < total; i++ {
		number := i + 1

		if err := ctx.Err(); err != nil {
			return nil, domain.PageIterationError(fmt.Sprintf("extraction cancelled before page %d", number), err)
		}

		page, err := doc.Page(i)
		if err != nil {
			return nil, domain.PageIterationError(fmt.Sprintf("failed to load page %d", number), err)
		}

		records = append(records, s.extractPage(doc, page, number, logger))

		if s.opts.OnPage != nil {
			s.opts.OnPage(number, total)
		}
	}

	return records, nil
}

// extractPage assembles the record for one page. Sub-extractors absorb
// their own failures.
func (s *Service) extractPage(doc domain.Document, page domain.Page, number int, logger *domain.Logger) domain.PageRecord {
	text := extractText(page, number, logger)

	record := domain.PageRecord{
		Page:     number,
		Text:     text,
		Images:   extractImages(doc, page, number, logger),
		Drawings: []domain.VisualArtifact{},
	}

	if s.opts.Enhanced && s.opts.Detector.LooksLikeFigure(text) {
		if drawing := s.renderFigure(page, number, logger); drawing != nil {
			record.Drawings = append(record.Drawings, *drawing)
		}
	}

	return record
}

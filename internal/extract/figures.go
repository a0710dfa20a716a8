package extract

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// FigureDetector decides from page text whether a page likely holds a
// figure worth rasterizing.
type FigureDetector interface {
	LooksLikeFigure(text string) bool
}

// KeywordDetector matches lowercase keywords as substrings of the
// lowercased page text. It is a low-precision proxy, not a vector parser.
type KeywordDetector struct {
	keywords []string
}

// NewKeywordDetector creates a detector for the given keywords. Empty
// keywords are ignored.
func NewKeywordDetector(keywords []string) *KeywordDetector {
	d := &KeywordDetector{}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			d.keywords = append(d.keywords, k)
		}
	}
	return d
}

// LooksLikeFigure reports whether any keyword occurs in text.
func (d *KeywordDetector) LooksLikeFigure(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// renderFigure rasterizes the page and returns it as a visual artifact if
// the PNG is larger than the configured threshold. Render failures are
// logged and yield nil.
func (s *Service) renderFigure(page domain.Page, number int, logger *domain.Logger) *domain.VisualArtifact {
	raster, err := renderPage(page, s.opts.RenderScale)
	if err == nil && raster == nil {
		err = fmt.Errorf("renderer returned no image")
	}
	if err != nil {
		logger.Warn().
			Int("page", number).
			Err(domain.PageRenderError(fmt.Sprintf("render page %d", number), err)).
			Msg("error rendering page")
		return nil
	}

	size := len(raster.PNG)
	if size <= s.opts.MinRenderBytes {
		logger.Debug().
			Int("page", number).
			Int("size", size).
			Int("threshold", s.opts.MinRenderBytes).
			Msg("discarding page render below size threshold")
		return nil
	}

	return &domain.VisualArtifact{
		Type:     domain.PageRenderType,
		Page:     number,
		Base64:   base64.StdEncoding.EncodeToString(raster.PNG),
		MimeType: "image/png",
		Width:    raster.Width,
		Height:   raster.Height,
		Size:     size,
		Note:     domain.PageRenderNote,
	}
}

// renderPage calls the engine renderer, turning a panic into an error.
func renderPage(page domain.Page, scale float64) (raster *domain.Raster, err error) {
	defer func() {
		if r := recover(); r != nil {
			raster, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return page.Render(scale)
}

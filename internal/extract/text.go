package extract

import (
	"fmt"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// extractText returns the page text, or "" when extraction fails or the
// engine panics on the page's text layer.
func extractText(page domain.Page, number int, logger *domain.Logger) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Int("page", number).Err(fmt.Errorf("panic: %v", r)).Msg("text extraction failed, using empty text")
			text = ""
		}
	}()

	text, err := page.Text()
	if err != nil {
		logger.Debug().Int("page", number).Err(err).Msg("text extraction failed, using empty text")
		return ""
	}
	return text
}

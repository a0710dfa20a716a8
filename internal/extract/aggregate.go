package extract

import (
	"fmt"
	"strings"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// buildResult assembles the success envelope. Totals are recomputed from
// the records.
func buildResult(records []domain.PageRecord) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		Success:    true,
		TotalPages: len(records),
		Pages:      records,
	}

	var fullText strings.Builder
	for _, r := range records {
		fmt.Fprintf(&fullText, "[Page %d]\n%s\n", r.Page, r.Text)
		result.TotalImages += len(r.Images)
		result.TotalDrawings += len(r.Drawings)
	}
	result.FullText = fullText.String()

	return result
}

// errorResult builds the failure envelope: no pages, all totals zero.
func errorResult(err error) *domain.ExtractionResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &domain.ExtractionResult{
		Success: false,
		Error:   msg,
	}
}

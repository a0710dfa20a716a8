package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// largeFileSize is the size above which a warning is logged.
const largeFileSize = 100 * 1024 * 1024

// Validator provides input validation for PDF files
type Validator struct {
	logger *domain.Logger
}

// NewValidator creates a new validator instance
func NewValidator(logger *domain.Logger) *Validator {
	if logger == nil {
		logger = domain.NopLogger()
	}
	return &Validator{logger: logger}
}

// ValidatePDFPath checks that path names a readable regular file. The
// extension is not checked; the engine sniffs the content.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if info.Size() > largeFileSize {
		v.logger.Warn().
			Str("path", path).
			Int64("size_mb", info.Size()/(1024*1024)).
			Msg("PDF file is very large, processing may take a while")
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

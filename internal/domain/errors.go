package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"

	// Fatal for the whole extraction call.
	ErrorTypeDocumentOpen  ErrorType = "document_open"
	ErrorTypePageIteration ErrorType = "page_iteration"

	// Scoped to one image or one page render; logged and skipped.
	ErrorTypeImageDecode ErrorType = "image_decode"
	ErrorTypePageRender  ErrorType = "page_render"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether any error in err's chain is a DomainError of type t.
func IsType(err error, t ErrorType) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Type == t {
			return true
		}
		err = de.Err
	}
	return false
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func DocumentOpenError(message string, err error) *DomainError {
	return NewError(ErrorTypeDocumentOpen, message, err)
}

func PageIterationError(message string, err error) *DomainError {
	return NewError(ErrorTypePageIteration, message, err)
}

func ImageDecodeError(message string, err error) *DomainError {
	return NewError(ErrorTypeImageDecode, message, err)
}

func PageRenderError(message string, err error) *DomainError {
	return NewError(ErrorTypePageRender, message, err)
}

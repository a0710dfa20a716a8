package domain

import (
	"bytes"
	"encoding/json"
)

// PageRenderType identifies a VisualArtifact produced by rasterizing a whole page.
const PageRenderType = "page_render"

// PageRenderNote is attached to every page render.
const PageRenderNote = "Full page render (contains figures/diagrams)"

// ExtractionResult is the envelope returned for one document.
// Error is set iff Success is false; FullText and Pages are only set on success.
type ExtractionResult struct {
	Success       bool         `json:"success"`
	Error         string       `json:"error,omitempty"`
	TotalPages    int          `json:"total_pages"`
	TotalImages   int          `json:"total_images"`
	TotalDrawings int          `json:"total_drawings"`
	FullText      string       `json:"full_text,omitempty"`
	Pages         []PageRecord `json:"pages,omitempty"`
}

// MarshalJSON emits full_text and pages on every success, including a
// document without pages, and never on failure.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	type plain ExtractionResult
	if !r.Success {
		r.FullText, r.Pages = "", nil
		return marshalUnescaped(plain(r))
	}

	pages := r.Pages
	if pages == nil {
		pages = []PageRecord{}
	}
	return marshalUnescaped(struct {
		plain
		FullText string       `json:"full_text"`
		Pages    []PageRecord `json:"pages"`
	}{plain(r), r.FullText, pages})
}

// marshalUnescaped is json.Marshal without HTML escaping, so page text keeps
// its <, > and & characters.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// PageRecord holds everything extracted from a single page.
type PageRecord struct {
	Page     int              `json:"page"` // 1-based
	Text     string           `json:"text"`
	Images   []ImageArtifact  `json:"images"`
	Drawings []VisualArtifact `json:"drawings"`
}

// ImageArtifact is an embedded raster image, base64 encoded for transport.
type ImageArtifact struct {
	Page     int    `json:"page"`
	MimeType string `json:"mime_type"`
	Base64   string `json:"base64"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int    `json:"size"` // raw bytes before encoding
}

// VisualArtifact is a full-page PNG render kept because the page looked like
// it carried a figure. It overlaps with the page text and images.
type VisualArtifact struct {
	Type     string `json:"type"`
	Page     int    `json:"page"`
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
	Note     string `json:"note"`
}

// ImageRef identifies an embedded image object inside a document.
type ImageRef int

// DecodedImage is the raw payload of an embedded image.
type DecodedImage struct {
	Data   []byte
	Ext    string // file extension without dot, e.g. "jpg", "png"
	Width  int
	Height int
}

// Raster is a PNG-encoded page render.
type Raster struct {
	PNG    []byte
	Width  int
	Height int
}

package domain

// Engine opens PDF documents
type Engine interface {
	// Open returns a document handle or a DocumentOpenError.
	Open(path string) (Document, error)
}

// Document is an open PDF. It is owned by a single extraction call and must
// be closed by it.
type Document interface {
	// NumPages returns the number of pages in the document
	NumPages() int

	// Page returns the page at the zero-based index
	Page(index int) (Page, error)

	// DecodeImage returns the raw bytes and format of an embedded image
	DecodeImage(ref ImageRef) (*DecodedImage, error)

	Close() error
}

// Page is a single page of an open Document
type Page interface {
	// Number returns the 1-based page number
	Number() int

	// Text returns the plain text of the page in default layout mode
	Text() (string, error)

	// Images returns the deduplicated embedded image references of the page
	Images() ([]ImageRef, error)

	// Render rasterizes the full page. scale is relative to 72 DPI and
	// applies to both axes.
	Render(scale float64) (*Raster, error)
}

// Package pdf implements the document engine on top of MuPDF (go-fitz) for
// text and rendering and pdfcpu for embedded image extraction.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

var disableConfigDir sync.Once

var errDocumentClosed = errors.New("document is closed")

// Options configures the Engine.
type Options struct {
	// StrictValidation rejects non-conforming files in the image reader.
	StrictValidation bool
	Logger           *domain.Logger
}

// Engine opens PDF documents from the local filesystem
type Engine struct {
	validator *Validator
	strict    bool
	logger    *domain.Logger
}

// NewEngine creates a new PDF engine
func NewEngine(opts Options) *Engine {
	// pdfcpu must not create a config directory in the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	logger := opts.Logger
	if logger == nil {
		logger = domain.NopLogger()
	}
	logger = logger.WithPrefix("pdf")

	return &Engine{
		validator: NewValidator(logger),
		strict:    opts.StrictValidation,
		logger:    logger,
	}
}

// Open validates path and opens the document.
func (e *Engine) Open(path string) (domain.Document, error) {
	if err := e.validator.ValidatePDFPath(path); err != nil {
		return nil, domain.DocumentOpenError("invalid document path", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, domain.DocumentOpenError("failed to open PDF", err)
	}

	e.logger.Debug().Str("path", path).Int("pages", doc.NumPage()).Msg("opened document")

	return &Document{
		doc:    doc,
		images: newImageReader(path, e.strict, e.logger),
	}, nil
}

// Document is an open PDF backed by a MuPDF handle
type Document struct {
	mu     sync.Mutex
	doc    *fitz.Document
	images *imageReader
}

// NumPages returns the number of pages, or 0 once closed.
func (d *Document) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return 0
	}
	return d.doc.NumPage()
}

// Page returns the page at the zero-based index.
func (d *Document) Page(index int) (domain.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return nil, errDocumentClosed
	}
	if index < 0 || index >= d.doc.NumPage() {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, d.doc.NumPage())
	}
	return &Page{doc: d, index: index}, nil
}

// DecodeImage extracts the raw bytes of an embedded image.
func (d *Document) DecodeImage(ref domain.ImageRef) (*domain.DecodedImage, error) {
	return d.images.decode(ref)
}

// Close releases the MuPDF handle and the parsed image context. It is safe
// to call more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.images.release()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}

// handle returns the live MuPDF handle.
func (d *Document) handle() (*fitz.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return nil, errDocumentClosed
	}
	return d.doc, nil
}

// Page is one page of a Document
type Page struct {
	doc   *Document
	index int
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.index + 1
}

// Text returns the page text in MuPDF's default layout mode.
func (p *Page) Text() (string, error) {
	doc, err := p.doc.handle()
	if err != nil {
		return "", err
	}
	return doc.Text(p.index)
}

// Images returns the embedded image object numbers used by the page.
func (p *Page) Images() ([]domain.ImageRef, error) {
	return p.doc.images.pageImages(p.Number())
}

// Render rasterizes the page at scale times the native 72 DPI and encodes
// it as PNG with MuPDF's encoder.
func (p *Page) Render(scale float64) (*domain.Raster, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid render scale %v", scale)
	}

	doc, err := p.doc.handle()
	if err != nil {
		return nil, err
	}

	data, err := doc.ImagePNG(p.index, scale*72)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", p.Number(), err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read render dimensions of page %d: %w", p.Number(), err)
	}

	return &domain.Raster{
		PNG:    data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

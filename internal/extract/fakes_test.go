package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

type fakeEngine struct {
	doc     *fakeDocument
	openErr error
	opened  []string
}

func (e *fakeEngine) Open(path string) (domain.Document, error) {
	e.opened = append(e.opened, path)
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.doc, nil
}

type fakeImage struct {
	img   *domain.DecodedImage
	err   error
	panic bool
}

type fakeDocument struct {
	pages     []*fakePage
	images    map[domain.ImageRef]fakeImage
	pageErrs  map[int]error
	pagePanic map[int]bool
	closeErr  error
	closed    int
}

func (d *fakeDocument) NumPages() int { return len(d.pages) }

func (d *fakeDocument) Page(index int) (domain.Page, error) {
	if d.pagePanic[index] {
		panic("page tree is corrupt")
	}
	if err := d.pageErrs[index]; err != nil {
		return nil, err
	}
	return d.pages[index], nil
}

func (d *fakeDocument) DecodeImage(ref domain.ImageRef) (*domain.DecodedImage, error) {
	fi, ok := d.images[ref]
	if !ok {
		return nil, errors.New("unknown image reference")
	}
	if fi.panic {
		panic(fmt.Sprintf("index out of range decoding image %d", ref))
	}
	return fi.img, fi.err
}

func (d *fakeDocument) Close() error {
	d.closed++
	return d.closeErr
}

type fakePage struct {
	number    int
	text      string
	textErr   error
	textPanic bool
	refs        []domain.ImageRef
	refsErr     error
	refsPanic   bool
	raster      *domain.Raster
	renderErr   error
	renderPanic bool
	scales      []float64
}

func (p *fakePage) Number() int { return p.number }

func (p *fakePage) Text() (string, error) {
	if p.textPanic {
		panic("corrupt text layer")
	}
	return p.text, p.textErr
}

func (p *fakePage) Images() ([]domain.ImageRef, error) {
	if p.refsPanic {
		panic("bad resource dictionary")
	}
	return p.refs, p.refsErr
}

func (p *fakePage) Render(scale float64) (*domain.Raster, error) {
	p.scales = append(p.scales, scale)
	if p.renderPanic {
		panic("rasterizer fault")
	}
	return p.raster, p.renderErr
}

// newDoc builds a document whose pages carry the given texts.
func newDoc(texts ...string) *fakeDocument {
	doc := &fakeDocument{images: map[domain.ImageRef]fakeImage{}}
	for i, text := range texts {
		doc.pages = append(doc.pages, &fakePage{number: i + 1, text: text})
	}
	return doc
}

func (d *fakeDocument) withImage(ref domain.ImageRef, ext string, data []byte, w, h int) *fakeDocument {
	d.images[ref] = fakeImage{img: &domain.DecodedImage{Data: data, Ext: ext, Width: w, Height: h}}
	return d
}

func (d *fakeDocument) withPanickingImage(ref domain.ImageRef) *fakeDocument {
	d.images[ref] = fakeImage{panic: true}
	return d
}

func (d *fakeDocument) withBrokenImage(ref domain.ImageRef, err error) *fakeDocument {
	d.images[ref] = fakeImage{err: err}
	return d
}

// raster returns a render whose PNG payload has exactly size bytes.
func raster(size int) *domain.Raster {
	return &domain.Raster{PNG: bytes.Repeat([]byte{0x42}, size), Width: 1275, Height: 1650}
}

// logSink captures JSON diagnostics.
type logSink struct {
	buf bytes.Buffer
}

func (s *logSink) logger() *domain.Logger {
	return domain.NewLogger(domain.LogConfig{Level: "debug", Format: "json", Output: &s.buf})
}

func (s *logSink) entries(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

// withMessage returns the entries whose message equals msg.
func (s *logSink) withMessage(t *testing.T, msg string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, e := range s.entries(t) {
		if e["message"] == msg {
			out = append(out, e)
		}
	}
	return out
}

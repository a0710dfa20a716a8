package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-content-extractor/internal/domain"
	"github.com/spherical/pdf-content-extractor/internal/pdf/pdftest"
)

func TestEngine_OpenInvalidPaths(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.pdf")
	require.NoError(t, os.WriteFile(corrupt, []byte("this is not a PDF document"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{name: "non-existent file", path: filepath.Join(dir, "missing.pdf")},
		{name: "empty path", path: ""},
		{name: "directory instead of file", path: dir},
		{name: "corrupt file", path: corrupt},
	}

	engine := NewEngine(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := engine.Open(tt.path)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, domain.IsType(err, domain.ErrorTypeDocumentOpen))
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestEngine_TextAndPages(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{
		{Text: "Figure 1 shows the cooling loop"},
		{Text: "Plain operating notes"},
	})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 2, doc.NumPages())

	first, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number())

	text, err := first.Text()
	require.NoError(t, err)
	assert.Contains(t, text, "Figure 1 shows the cooling loop")

	second, err := doc.Page(1)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number())

	text, err = second.Text()
	require.NoError(t, err)
	assert.Contains(t, text, "Plain operating notes")

	_, err = doc.Page(2)
	assert.Error(t, err)
	_, err = doc.Page(-1)
	assert.Error(t, err)
}

func TestEngine_PagesWithoutImages(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{{Text: "No pictures here"}})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)
	defer doc.Close()

	page, err := doc.Page(0)
	require.NoError(t, err)

	refs, err := page.Images()
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestEngine_EmbeddedJPEG(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{
		{Text: "Cover", JPEG: true},
		{Text: "Back", JPEG: true},
	})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)
	defer doc.Close()

	for i := 0; i < doc.NumPages(); i++ {
		page, err := doc.Page(i)
		require.NoError(t, err)

		refs, err := page.Images()
		require.NoError(t, err)
		require.Len(t, refs, 1, "shared XObject is reported once per page")

		img, err := doc.DecodeImage(refs[0])
		require.NoError(t, err)
		assert.Equal(t, "jpg", img.Ext)
		assert.Equal(t, pdftest.JPEGWidth, img.Width)
		assert.Equal(t, pdftest.JPEGHeight, img.Height)
		assert.NotEmpty(t, img.Data)
	}
}

func TestEngine_DecodeUnknownImage(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{{Text: "x"}})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)
	defer doc.Close()

	_, err = doc.DecodeImage(domain.ImageRef(9999))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeImageDecode))
}

func TestEngine_Render(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{{Text: "Diagram of the assembly"}})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)
	defer doc.Close()

	page, err := doc.Page(0)
	require.NoError(t, err)

	raster, err := page.Render(150.0 / 72.0)
	require.NoError(t, err)
	assert.InDelta(t, 1275, raster.Width, 1)
	assert.InDelta(t, 1650, raster.Height, 1)
	assert.Equal(t, []byte("\x89PNG"), raster.PNG[:4])

	_, err = page.Render(0)
	assert.Error(t, err)
}

func TestDocument_CloseIsIdempotent(t *testing.T) {
	path := pdftest.WriteFile(t, []pdftest.Page{{Text: "x"}})

	doc, err := NewEngine(Options{}).Open(path)
	require.NoError(t, err)

	page, err := doc.Page(0)
	require.NoError(t, err)

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close())

	assert.Equal(t, 0, doc.NumPages())
	_, err = doc.Page(0)
	assert.Error(t, err)
	_, err = page.Text()
	assert.Error(t, err)
	_, err = page.Images()
	assert.Error(t, err)
}

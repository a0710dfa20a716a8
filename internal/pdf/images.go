package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// imageReader extracts embedded images with pdfcpu. The file is parsed and
// optimized on first use; optimization merges identical image objects, so
// each image is reported once per page. When pdfcpu cannot parse a file that
// MuPDF opened, the failure is logged once and every page reports no images.
type imageReader struct {
	path   string
	strict bool
	logger *domain.Logger

	mu          sync.Mutex
	loaded      bool
	unavailable bool
	closed      bool
	ctx         *model.Context
	err         error
}

func newImageReader(path string, strict bool, logger *domain.Logger) *imageReader {
	if logger == nil {
		logger = domain.NopLogger()
	}
	return &imageReader{path: path, strict: strict, logger: logger}
}

// context returns the parsed document. A nil context with a nil error means
// the image catalog is unavailable for this document.
func (r *imageReader) context() (*model.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errDocumentClosed
	}
	if !r.loaded {
		r.loaded = true
		r.ctx, r.err = r.read()
		if r.err != nil {
			r.unavailable = true
			r.logger.Warn().
				Str("path", r.path).
				Err(r.err).
				Msg("image catalog unavailable, extracting without embedded images")
		}
	}
	if r.unavailable {
		return nil, nil
	}
	return r.ctx, nil
}

func (r *imageReader) read() (*model.Context, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if r.strict {
		conf.ValidationMode = model.ValidationStrict
	}

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("read image catalog: %w", err)
	}
	if ctx.Optimize == nil {
		return nil, fmt.Errorf("read image catalog: no optimization context")
	}
	return ctx, nil
}

func (r *imageReader) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctx = nil
	r.closed = true
}

// pageImages returns the image object numbers of pageNr in ascending order.
func (r *imageReader) pageImages(pageNr int) ([]domain.ImageRef, error) {
	ctx, err := r.context()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		return []domain.ImageRef{}, nil
	}
	if pageNr < 1 || pageNr > ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", pageNr, ctx.PageCount)
	}

	objNrs := pdfcpu.ImageObjNrs(ctx, pageNr)
	sort.Ints(objNrs)

	refs := make([]domain.ImageRef, 0, len(objNrs))
	for _, nr := range objNrs {
		refs = append(refs, domain.ImageRef(nr))
	}
	return refs, nil
}

func (r *imageReader) decode(ref domain.ImageRef) (*domain.DecodedImage, error) {
	msg := fmt.Sprintf("decode image object %d", ref)

	ctx, err := r.context()
	if err == nil && ctx == nil {
		err = r.err
	}
	if err != nil {
		return nil, domain.ImageDecodeError(msg, err)
	}

	obj, ok := ctx.Optimize.ImageObjects[int(ref)]
	if !ok || obj == nil || obj.ImageDict == nil {
		return nil, domain.ImageDecodeError(msg, fmt.Errorf("unknown image object"))
	}

	img, err := pdfcpu.ExtractImage(ctx, obj.ImageDict, false, "", int(ref), false)
	if err != nil {
		return nil, domain.ImageDecodeError(msg, err)
	}
	if img == nil || img.Reader == nil {
		return nil, domain.ImageDecodeError(msg, fmt.Errorf("unsupported image encoding"))
	}

	data, err := io.ReadAll(img.Reader)
	if err != nil {
		return nil, domain.ImageDecodeError(msg, err)
	}
	if len(data) == 0 {
		return nil, domain.ImageDecodeError(msg, fmt.Errorf("empty image stream"))
	}

	width, height := img.Width, img.Height
	if width <= 0 || height <= 0 {
		width, height = probeDimensions(data)
	}

	return &domain.DecodedImage{
		Data:   data,
		Ext:    strings.ToLower(img.FileType),
		Width:  width,
		Height: height,
	}, nil
}

// probeDimensions reads the image header. Unknown formats yield 0, 0.
func probeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

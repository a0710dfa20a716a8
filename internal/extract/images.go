package extract

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spherical/pdf-content-extractor/internal/domain"
)

// imageOutcome is the result of decoding one image reference.
type imageOutcome struct {
	ref      domain.ImageRef
	artifact domain.ImageArtifact
	err      error
}

// extractImages decodes every image referenced by the page, in enumeration
// order. Images that fail to decode are logged and left out.
func extractImages(doc domain.Document, page domain.Page, number int, logger *domain.Logger) []domain.ImageArtifact {
	images := []domain.ImageArtifact{}

	refs, err := listImages(page)
	if err != nil {
		logger.Warn().Int("page", number).Err(err).Msg("failed to enumerate images")
		return images
	}

	for _, ref := range refs {
		out := decodeImage(doc, ref, number)
		if out.err != nil {
			logger.Warn().
				Int("page", number).
				Int("ref", int(out.ref)).
				Err(out.err).
				Msg("error extracting image")
			continue
		}
		images = append(images, out.artifact)
	}

	return images
}

// listImages enumerates the page's image references; a panic in the engine
// is reported as an error.
func listImages(page domain.Page) (refs []domain.ImageRef, err error) {
	defer func() {
		if r := recover(); r != nil {
			refs, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return page.Images()
}

// decodeImage decodes one reference. A panic in the engine becomes an
// ImageDecodeError outcome so the rest of the page is still extracted.
func decodeImage(doc domain.Document, ref domain.ImageRef, number int) (out imageOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = imageOutcome{
				ref: ref,
				err: domain.ImageDecodeError(fmt.Sprintf("decode image object %d", ref), fmt.Errorf("panic: %v", r)),
			}
		}
	}()

	img, err := doc.DecodeImage(ref)
	if err != nil {
		return imageOutcome{ref: ref, err: err}
	}
	if img == nil {
		return imageOutcome{ref: ref, err: domain.ImageDecodeError(fmt.Sprintf("decode image object %d", ref), fmt.Errorf("no image data"))}
	}

	return imageOutcome{
		ref: ref,
		artifact: domain.ImageArtifact{
			Page:     number,
			MimeType: MimeType(img.Ext),
			Base64:   base64.StdEncoding.EncodeToString(img.Data),
			Width:    img.Width,
			Height:   img.Height,
			Size:     len(img.Data),
		},
	}
}

// MimeType maps an image file extension to its MIME type. The jpg family
// collapses to image/jpeg; an unknown extension is treated as png.
func MimeType(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch ext {
	case "jpg", "jpeg", "jpe":
		return "image/jpeg"
	case "":
		return "image/png"
	default:
		return "image/" + ext
	}
}

package imaging

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Thumbnail scales img to the given height, preserving aspect ratio.
//
// Thumbnails decorate the catalog listing; they are small and regenerated
// rarely, so bilinear resampling is plenty and cheaper than the Lanczos
// filter used for the composite itself. Height must be positive; the derived
// width is clamped to at least one pixel for extreme aspect ratios.
func Thumbnail(img image.Image, height int) *image.RGBA {
	bounds := img.Bounds()

	if height < 1 {
		height = 1
	}
	w := bounds.Dx() * height / bounds.Dy()
	if w < 1 {
		w = 1
	}

	return transform.Resize(img, w, height, transform.Linear)
}

// ThumbnailDataURI returns img scaled to the given height and encoded as a
// PNG data URI suitable for direct use in an <img> src attribute.
func ThumbnailDataURI(img image.Image, height int) (string, error) {
	data, err := PNGBytes(Thumbnail(img, height))
	if err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

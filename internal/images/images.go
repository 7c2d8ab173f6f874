// Package images bounds uploaded images before they reach the external host.
package images

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	maxDimension = 800
	jpegQuality  = 80
)

// Optimize decodes an uploaded image, scales it down to fit inside an
// 800x800 box (never scaling up) and re-encodes it as JPEG at quality 80.
// Bounds storage cost on the host and normalizes the served format.
func Optimize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // Register BMP format decoder
)

// DefaultJPEGQuality is the quality setting used when re-encoding
// processed images (roughly 0.85 on the 0..1 scale).
const DefaultJPEGQuality = 85

var (
	// ErrDecode indicates the input bytes could not be decoded as an image.
	ErrDecode = errors.New("undecodable image data")

	// ErrImageTooSmall indicates a decoded image is below the minimum
	// dimensions the pipeline accepts.
	ErrImageTooSmall = errors.New("image below minimum dimensions")

	// ErrEmptyRegion indicates an operation was asked to work on a
	// zero-area region.
	ErrEmptyRegion = errors.New("empty region")
)

// Decode parses image bytes into an image.Image.
//
// Supported formats are JPEG, PNG, GIF, and BMP. Failures are wrapped
// around ErrDecode so callers can classify them with errors.Is.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DecodeValidated decodes image bytes and rejects images smaller than
// minWidth x minHeight with ErrImageTooSmall.
func DecodeValidated(data []byte, minWidth, minHeight int) (image.Image, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() < minWidth || b.Dy() < minHeight {
		return nil, fmt.Errorf("%w: %dx%d < %dx%d",
			ErrImageTooSmall, b.Dx(), b.Dy(), minWidth, minHeight)
	}
	return img, nil
}

// EncodeJPEG re-encodes an image as JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEGBase64 encodes an image as JPEG and returns the bytes as a
// standard base64 string, the transport format for processed images.
func EncodeJPEGBase64(img image.Image, quality int) (string, error) {
	data, err := EncodeJPEG(img, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

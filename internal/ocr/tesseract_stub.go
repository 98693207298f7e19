//go:build !cgo

package ocr

import "image"

// Recognize always fails: this binary was built without CGO, so no
// Tesseract engine is linked in.
func (c *Client) Recognize(img image.Image) (string, error) {
	return "", ErrUnavailable
}

// Available reports whether a Tesseract engine is linked into this binary.
func Available() bool {
	return false
}

// Version returns the version string of the linked Tesseract library.
func Version() string {
	return ""
}

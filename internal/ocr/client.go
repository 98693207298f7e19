package ocr

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// charWhitelist restricts recognition to characters that can appear on a
// plate. Anything outside this set is never emitted by the engine.
const charWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrUnavailable indicates that no Tesseract engine is linked into this
// binary (built without CGO) or the engine cannot be initialized.
var ErrUnavailable = errors.New("tesseract engine not available")

// Client reads plate text from preprocessed crops using Tesseract.
//
// A Client is cheap to construct and safe for concurrent use: each Recognize
// call creates its own short-lived Tesseract session.
type Client struct {
	// Language is the Tesseract language code (e.g. "eng", "por").
	Language string
}

// New returns a Client for the given Tesseract language code.
// An empty language falls back to DefaultLanguage.
func New(language string) *Client {
	if language == "" {
		language = DefaultLanguage
	}
	return &Client{Language: language}
}

// saveTemp writes img to a temporary PNG file and returns its path.
// Tesseract needs a file path; the caller removes the file after use.
func saveTemp(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "plate-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmpPath, nil
}

//go:build cgo

package ocr

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognize performs OCR on a preprocessed plate crop and returns the raw
// recognized text with surrounding whitespace trimmed.
//
// Parameters:
//   - img: The plate crop, already scaled and binarized for reading.
//
// Returns:
//   - string: Raw engine output. May contain inner whitespace or be empty
//     when the engine finds no text; callers normalize and correct it.
//   - error: Non-nil if the temp file handoff or the engine itself fails.
//
// The engine is configured for exactly one uppercase alphanumeric word:
// the character whitelist excludes everything outside A-Z and 0-9, and
// page segmentation mode 8 (single word) stops Tesseract from hunting for
// layout in what is a single line of plate text.
func (c *Client) Recognize(img image.Image) (string, error) {
	tmpPath, err := saveTemp(img)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(charWhitelist); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Available reports whether a Tesseract engine is linked into this binary.
func Available() bool {
	return true
}

// Version returns the version string of the linked Tesseract library.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

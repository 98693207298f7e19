// Package storage persists originals and processed images to disk as a
// best-effort side channel of the processing pipeline. Saving is
// optional and failures are reported to the caller for logging but
// never affect job outcomes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// Saver writes artifacts under a base directory, originals and
// processed outputs in separate subdirectories. Filenames embed the
// job id, a timestamp, and (for processed images) the detected plate
// text.
type Saver struct {
	// Dir is the base directory for artifacts.
	Dir string

	// Enabled toggles saving; when false all saves are silent no-ops.
	Enabled bool
}

// New creates a saver rooted at dir.
func New(dir string, enabled bool) *Saver {
	return &Saver{Dir: dir, Enabled: enabled}
}

// SaveOriginal writes the uploaded bytes as received and returns the
// file path, or "" when saving is disabled.
func (s *Saver) SaveOriginal(jobID string, data []byte) (string, error) {
	if !s.Enabled || len(data) == 0 {
		return "", nil
	}
	name := fmt.Sprintf("%s_%s.jpg", jobID, time.Now().Format(timestampLayout))
	return s.write(filepath.Join(s.Dir, "originals"), name, data)
}

// SaveProcessed writes the redacted/compressed output and returns the
// file path, or "" when saving is disabled. A non-empty plate text is
// embedded in the filename for later lookup.
func (s *Saver) SaveProcessed(jobID string, data []byte, plateText string) (string, error) {
	if !s.Enabled || len(data) == 0 {
		return "", nil
	}
	name := fmt.Sprintf("%s_%s", jobID, time.Now().Format(timestampLayout))
	if plateText != "" {
		name += "_" + sanitize(plateText)
	}
	return s.write(filepath.Join(s.Dir, "processed"), name+".jpg", data)
}

func (s *Saver) write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// sanitize keeps filenames portable regardless of what the recognizer
// produced.
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, text)
}

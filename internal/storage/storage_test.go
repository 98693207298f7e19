package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveOriginal(t *testing.T) {
	s := New(t.TempDir(), true)

	path, err := s.SaveOriginal("job-1", []byte("jpegdata"))
	if err != nil {
		t.Fatalf("SaveOriginal failed: %v", err)
	}

	if filepath.Base(filepath.Dir(path)) != "originals" {
		t.Errorf("original saved to %s, want originals subdirectory", path)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "job-1_") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("unexpected filename %s", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Errorf("saved content = %q, want %q", data, "jpegdata")
	}
}

func TestSaveProcessedEmbedsPlateText(t *testing.T) {
	s := New(t.TempDir(), true)

	path, err := s.SaveProcessed("job-2", []byte("out"), "ABC1234")
	if err != nil {
		t.Fatalf("SaveProcessed failed: %v", err)
	}

	name := filepath.Base(path)
	if !strings.Contains(name, "_ABC1234") {
		t.Errorf("filename %s should embed the plate text", name)
	}
	if filepath.Base(filepath.Dir(path)) != "processed" {
		t.Errorf("processed saved to %s, want processed subdirectory", path)
	}
}

func TestSaveProcessedWithoutPlateText(t *testing.T) {
	s := New(t.TempDir(), true)

	path, err := s.SaveProcessed("job-3", []byte("out"), "")
	if err != nil {
		t.Fatalf("SaveProcessed failed: %v", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".jpg")
	// job id plus timestamp only, no trailing plate segment
	if got := strings.Count(name, "_"); got != 2 {
		t.Errorf("filename %s has %d underscores, want 2", filepath.Base(path), got)
	}
}

func TestSaveDisabled(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, false)

	path, err := s.SaveOriginal("job-4", []byte("data"))
	if err != nil {
		t.Fatalf("SaveOriginal failed: %v", err)
	}
	if path != "" {
		t.Errorf("disabled saver returned path %q, want empty", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("disabled saver created %d entries", len(entries))
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC1234", "ABC1234"},
		{"AB C/12", "AB-C-12"},
		{"..", "--"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

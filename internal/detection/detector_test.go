package detection

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// stubRecognizer returns canned text and records how often it ran.
type stubRecognizer struct {
	text  string
	err   error
	calls int
}

func (s *stubRecognizer) Recognize(img image.Image) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestDetect_TinyImageSkipsRecognizer(t *testing.T) {
	rec := &stubRecognizer{text: "ABC1D23"}
	d := NewDetector(rec)

	small := image.NewRGBA(image.Rect(0, 0, 50, 50))
	result := d.Detect(small)

	if result.Found {
		t.Error("tiny image should not yield a detection")
	}
	if rec.calls != 0 {
		t.Errorf("recognizer invoked %d times for undersized image, want 0", rec.calls)
	}
}

func TestDetect_NilImage(t *testing.T) {
	d := NewDetector(&stubRecognizer{})
	if result := d.Detect(nil); result.Found {
		t.Error("nil image should not yield a detection")
	}
}

func TestDetectBytes_GarbageNotFound(t *testing.T) {
	d := NewDetector(&stubRecognizer{text: "ABC1D23"})
	result := d.DetectBytes([]byte("definitely not an image"))
	if result.Found {
		t.Error("garbage bytes should fail fast with found=false")
	}
}

func TestDetect_SyntheticPlateMercosul(t *testing.T) {
	rec := &stubRecognizer{text: "ABC1D23"}
	d := NewDetector(rec)

	img := syntheticPlateImage(800, 600, 300, 100, 400, 480)
	result := d.Detect(img)

	if !result.Found {
		t.Fatal("expected detection on synthetic plate image")
	}
	if result.PlateText != "ABC1D23" {
		t.Errorf("plate text: got %q, want ABC1D23", result.PlateText)
	}
	if result.Format != FormatMercosul {
		t.Errorf("format: got %q, want MERCOSUL", result.Format)
	}
	if result.Region == nil {
		t.Fatal("found result must carry a region")
	}
	if !IsValidPlateRegion(*result.Region) {
		t.Errorf("detected region fails plate bounds: %+v", *result.Region)
	}
	if rec.calls == 0 {
		t.Error("recognizer never invoked")
	}
}

func TestDetect_FirstAcceptedWins(t *testing.T) {
	// Recognizer succeeds on every candidate; detection must stop at
	// the first one rather than scanning the full list.
	rec := &stubRecognizer{text: "ABC1234"}
	d := NewDetector(rec)

	img := syntheticPlateImage(800, 600, 300, 100, 400, 480)
	result := d.Detect(img)
	if !result.Found {
		t.Fatal("expected detection")
	}
	if result.Format != FormatLegacy {
		t.Errorf("format: got %q, want LEGACY", result.Format)
	}
	if rec.calls != 1 {
		t.Errorf("recognizer invoked %d times, want 1 (early exit)", rec.calls)
	}
}

func TestDetect_RecognizerErrorDegrades(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("engine unavailable")}
	d := NewDetector(rec)

	img := syntheticPlateImage(800, 600, 300, 100, 400, 480)
	result := d.Detect(img)
	if result.Found {
		t.Error("recognizer failure must degrade to not-found, not a match")
	}
	if rec.calls == 0 {
		t.Error("recognizer should have been attempted")
	}
}

func TestDetect_UnclassifiableTextRejected(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"too short", "AB12"},
		{"unknown grammar", "1234567"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(&stubRecognizer{text: tt.text})
			img := syntheticPlateImage(800, 600, 300, 100, 400, 480)
			if result := d.Detect(img); result.Found {
				t.Errorf("text %q should not classify as a plate", tt.text)
			}
		})
	}
}

func TestPreprocessPlate(t *testing.T) {
	// Bright plate with dark strokes: output must be binarized and
	// resized to the fixed OCR width.
	crop := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			crop.SetRGBA(x, y, color.RGBA{230, 230, 230, 255})
		}
	}
	for y := 30; y < 70; y++ {
		for x := 40; x < 60; x++ {
			crop.SetRGBA(x, y, color.RGBA{15, 15, 15, 255})
		}
	}

	out, err := PreprocessPlate(crop)
	if err != nil {
		t.Fatalf("PreprocessPlate failed: %v", err)
	}
	if out.Bounds().Dx() != 400 {
		t.Errorf("width: got %d, want 400", out.Bounds().Dx())
	}
}

func TestPreprocessPlate_PolarityNormalized(t *testing.T) {
	// Majority-dark crop (light-on-dark plate) must come out inverted
	// so characters read dark on light.
	crop := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			crop.SetRGBA(x, y, color.RGBA{20, 20, 20, 255})
		}
	}
	// A few bright strokes.
	for y := 30; y < 70; y++ {
		for x := 140; x < 160; x++ {
			crop.SetRGBA(x, y, color.RGBA{240, 240, 240, 255})
		}
	}

	out, err := PreprocessPlate(crop)
	if err != nil {
		t.Fatalf("PreprocessPlate failed: %v", err)
	}
	// Sample a background pixel: after inversion it must be bright.
	r, _, _, _ := out.At(5, 5).RGBA()
	if r>>8 < 200 {
		t.Errorf("background should be bright after polarity normalization, got %d", r>>8)
	}
}

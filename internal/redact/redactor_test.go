package redact

import (
	"image"
	"image/color"
	"testing"

	"github.com/plateworks/plate-redact/internal/detection"
	"github.com/plateworks/plate-redact/internal/imaging"
)

// gradientImage builds a test image with per-pixel varying color so
// any unintended mutation is detectable.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), uint8((x + y) % 256), 255})
		}
	}
	return img
}

func TestRedact_OutsideRegionUntouched(t *testing.T) {
	src := gradientImage(640, 480)
	region := detection.Region{X: 200, Y: 350, Width: 240, Height: 60}

	r := New()
	target := r.TargetRegion(src.Bounds(), &region)

	out, err := r.Redact(src, &region)
	if err != nil {
		t.Fatalf("Redact failed: %v", err)
	}

	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			if image.Pt(x, y).In(target) {
				continue
			}
			if src.RGBAAt(x, y) != out.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside target %v was modified", x, y, target)
			}
		}
	}
}

func TestRedact_RegionPixelsChanged(t *testing.T) {
	src := gradientImage(640, 480)
	region := detection.Region{X: 200, Y: 350, Width: 240, Height: 60}

	out, err := New().Redact(src, &region)
	if err != nil {
		t.Fatalf("Redact failed: %v", err)
	}

	changed := 0
	for y := region.Y; y < region.Y+region.Height; y++ {
		for x := region.X; x < region.X+region.Width; x++ {
			if src.RGBAAt(x, y) != out.RGBAAt(x, y) {
				changed++
			}
		}
	}
	if changed < region.Area()/2 {
		t.Errorf("only %d of %d region pixels changed", changed, region.Area())
	}
}

func TestTargetRegion_ExpandsAndClamps(t *testing.T) {
	r := New()
	bounds := image.Rect(0, 0, 640, 480)

	region := &detection.Region{X: 200, Y: 350, Width: 240, Height: 60}
	target := r.TargetRegion(bounds, region)

	// 15% of 240 = 36 horizontal, 15% of 60 = 9 vertical.
	want := image.Rect(200-36, 350-9, 200+240+36, 350+60+9)
	if target != want {
		t.Errorf("expanded target: got %v, want %v", target, want)
	}

	// Region near the edge must clamp to bounds.
	edge := &detection.Region{X: 0, Y: 430, Width: 240, Height: 50}
	target = r.TargetRegion(bounds, edge)
	if target.Min.X < 0 || target.Max.Y > 480 {
		t.Errorf("target %v escapes bounds", target)
	}
}

func TestTargetRegion_MinimumExpansion(t *testing.T) {
	r := New()
	bounds := image.Rect(0, 0, 640, 480)

	// 15% of a small region is below the pixel minimums.
	small := &detection.Region{X: 300, Y: 300, Width: 40, Height: 20}
	target := r.TargetRegion(bounds, small)
	if got := 300 - target.Min.X; got != minExpandX {
		t.Errorf("horizontal expansion: got %d, want %d", got, minExpandX)
	}
	if got := 300 - target.Min.Y; got != minExpandY {
		t.Errorf("vertical expansion: got %d, want %d", got, minExpandY)
	}
}

func TestTargetRegion_EstimateFallback(t *testing.T) {
	r := New()
	bounds := image.Rect(0, 0, 1000, 800)

	tests := []struct {
		name   string
		region *detection.Region
	}{
		{"missing region", nil},
		{"zero area", &detection.Region{X: 10, Y: 10}},
		{"out of bounds", &detection.Region{X: 900, Y: 700, Width: 300, Height: 80}},
		{"too wide", &detection.Region{X: 0, Y: 600, Width: 900, Height: 100}},
		{"too tall", &detection.Region{X: 400, Y: 300, Width: 300, Height: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := r.TargetRegion(bounds, tt.region)

			// Estimate: width 300 (30% of 1000), height 100, centered,
			// at 75% of image height.
			if target.Dx() != 300 || target.Dy() != 100 {
				t.Errorf("estimate size: got %dx%d, want 300x100", target.Dx(), target.Dy())
			}
			if target.Min.X != 350 {
				t.Errorf("estimate x: got %d, want 350 (centered)", target.Min.X)
			}
			if target.Min.Y != 600 {
				t.Errorf("estimate y: got %d, want 600 (75%% height)", target.Min.Y)
			}
		})
	}
}

func TestRedact_LabelOnLargeRegion(t *testing.T) {
	src := gradientImage(640, 480)
	region := detection.Region{X: 200, Y: 350, Width: 240, Height: 60}

	r := New()
	target := r.TargetRegion(src.Bounds(), &region)
	out, err := r.Redact(src, &region)
	if err != nil {
		t.Fatalf("Redact failed: %v", err)
	}

	// Border pixels carry the marker color.
	if got := out.RGBAAt(target.Min.X, target.Min.Y); got != borderColor {
		t.Errorf("border corner: got %v, want %v", got, borderColor)
	}

	// Some pixel near the center should be the label white.
	found := false
	cy := target.Min.Y + target.Dy()/2
	for y := cy - 10; y <= cy+10 && !found; y++ {
		for x := target.Min.X; x < target.Max.X; x++ {
			if out.RGBAAt(x, y) == labelColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no label pixels found in a region large enough for the label")
	}
}

func TestRedactJPEG_Decodes(t *testing.T) {
	src := gradientImage(640, 480)
	region := detection.Region{X: 200, Y: 350, Width: 240, Height: 60}

	data, err := New().RedactJPEG(src, &region)
	if err != nil {
		t.Fatalf("RedactJPEG failed: %v", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if img.Bounds().Dx() != 640 {
		t.Errorf("width: got %d, want 640 (no downscale needed)", img.Bounds().Dx())
	}
}

func TestRedactJPEG_DownscalesOversized(t *testing.T) {
	src := gradientImage(3840, 2160)
	region := detection.Region{X: 1600, Y: 1700, Width: 480, Height: 140}

	data, err := New().RedactJPEG(src, &region)
	if err != nil {
		t.Fatalf("RedactJPEG failed: %v", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if img.Bounds().Dx() != 1920 || img.Bounds().Dy() != 1080 {
		t.Errorf("dimensions: got %dx%d, want 1920x1080", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestCompressJPEG(t *testing.T) {
	data, err := New().CompressJPEG(gradientImage(800, 600))
	if err != nil {
		t.Fatalf("CompressJPEG failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
	if _, err := imaging.Decode(data); err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
}

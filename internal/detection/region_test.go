package detection

import (
	"math/rand"
	"testing"
)

func TestIsValidPlateRegion_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want bool
	}{
		{"typical plate", Region{0, 0, 300, 100}, true},
		{"min width and height", Region{0, 0, 120, 30}, true},
		{"area exactly max", Region{0, 0, 400, 125}, true}, // 50000 px^2, aspect 3.2
		{"just over max area", Region{0, 0, 402, 125}, false},
		{"too square", Region{0, 0, 250, 200}, false}, // aspect 1.25
		{"aspect exactly 2", Region{0, 0, 120, 60}, true},
		{"aspect exactly 5", Region{0, 0, 200, 40}, true},
		{"aspect below 2", Region{0, 0, 120, 61}, false},
		{"aspect above 5", Region{0, 0, 320, 60}, false}, // 5.33
		{"width below min", Region{0, 0, 119, 40}, false},
		{"height below min", Region{0, 0, 150, 29}, false},
		{"zero area", Region{0, 0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPlateRegion(tt.r); got != tt.want {
				t.Errorf("IsValidPlateRegion(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

// TestIsValidPlateRegion_Property sweeps randomized rectangles and
// checks the acceptance set exactly matches the documented bounds.
func TestIsValidPlateRegion_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		r := Region{
			X:      rng.Intn(500),
			Y:      rng.Intn(500),
			Width:  rng.Intn(600),
			Height: rng.Intn(300),
		}
		want := false
		if r.Width >= MinPlateWidth && r.Height >= MinPlateHeight {
			area := r.Width * r.Height
			aspect := float64(r.Width) / float64(r.Height)
			want = area >= MinPlateArea && area <= MaxPlateArea &&
				aspect >= MinPlateAspect && aspect <= MaxPlateAspect
		}
		if got := IsValidPlateRegion(r); got != want {
			t.Fatalf("mismatch for %+v: got %v, want %v", r, got, want)
		}
	}
}

func TestRegion_RectRoundTrip(t *testing.T) {
	r := Region{X: 10, Y: 20, Width: 30, Height: 40}
	if got := RegionFromRect(r.Rect()); got != r {
		t.Errorf("round trip: got %+v, want %+v", got, r)
	}
}

func TestRegion_IntersectionArea(t *testing.T) {
	a := Region{0, 0, 100, 100}
	b := Region{50, 50, 100, 100}
	if got := a.IntersectionArea(b); got != 2500 {
		t.Errorf("overlap: got %d, want 2500", got)
	}
	c := Region{200, 200, 10, 10}
	if got := a.IntersectionArea(c); got != 0 {
		t.Errorf("disjoint: got %d, want 0", got)
	}
}

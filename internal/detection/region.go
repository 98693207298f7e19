package detection

import "image"

// Plate-region acceptance bounds. Regions outside these are discarded
// before scoring; this rejects both noise-sized blobs and whole-image
// false positives.
const (
	MinPlateArea   = 3000
	MaxPlateArea   = 50000
	MinPlateAspect = 2.0
	MaxPlateAspect = 5.0
	MinPlateWidth  = 120
	MinPlateHeight = 30
)

// Region is an axis-aligned rectangle in image pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionFromRect converts a standard image.Rectangle to a Region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect converts the region to a standard image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns the region's area in square pixels.
func (r Region) Area() int {
	return r.Width * r.Height
}

// AspectRatio returns width/height, or 0 for a zero-height region.
func (r Region) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// IntersectionArea returns the area of overlap between two regions.
func (r Region) IntersectionArea(other Region) int {
	inter := r.Rect().Intersect(other.Rect())
	if inter.Empty() {
		return 0
	}
	return inter.Dx() * inter.Dy()
}

// IsValidPlateRegion reports whether a region has the geometry of a
// plausible license plate: area in [3000, 50000] px^2, aspect ratio in
// [2.0, 5.0], width >= 120 and height >= 30.
func IsValidPlateRegion(r Region) bool {
	if r.Width < MinPlateWidth || r.Height < MinPlateHeight {
		return false
	}
	area := r.Area()
	if area < MinPlateArea || area > MaxPlateArea {
		return false
	}
	aspect := r.AspectRatio()
	return aspect >= MinPlateAspect && aspect <= MaxPlateAspect
}

package detection

import (
	"image"

	"github.com/plateworks/plate-redact/internal/imaging"
)

// Scoring constants. Brightness values are on the 0-255 scale.
const (
	edgeDelta        = 50  // min brightness difference for an edge pair
	brightFloor      = 180 // a pixel this bright counts toward the color score
	brightBandLow    = 0.4 // target bright-fraction band for plates
	brightBandHigh   = 0.8
	colorScoreFloor  = 0.1 // penalty score outside the band
	textSampleWidth  = 100 // downsample width for the text score
	maxTransitions   = 10  // empirical max brightness transitions per line
)

// Scores holds the four per-region feature scores, each in [0,1].
type Scores struct {
	Edge     float64 `json:"edge"`
	Color    float64 `json:"color"`
	Position float64 `json:"position"`
	Text     float64 `json:"text"`
}

// Composite collapses the scores into a single ranking value:
// 0.3*edge + 0.3*color + 0.2*position + 0.2*text.
func (s Scores) Composite() float64 {
	return 0.3*s.Edge + 0.3*s.Color + 0.2*s.Position + 0.2*s.Text
}

// Scorer computes feature scores for rectangular regions of one image.
// It operates on a precomputed grayscale view so repeated region
// evaluations do not redo the color conversion.
type Scorer struct {
	gray   *image.Gray
	width  int
	height int
}

// NewScorer creates a scorer over a grayscale view of the image.
func NewScorer(gray *image.Gray) *Scorer {
	return &Scorer{
		gray:   gray,
		width:  gray.Bounds().Dx(),
		height: gray.Bounds().Dy(),
	}
}

// Score computes all four feature scores for a region.
func (s *Scorer) Score(r Region) Scores {
	return Scores{
		Edge:     s.EdgeScore(r),
		Color:    s.ColorScore(r),
		Position: s.PositionScore(r),
		Text:     s.TextScore(r),
	}
}

// EdgeScore returns the fraction of horizontally adjacent pixel pairs
// inside the region whose brightness differs by more than edgeDelta.
// High values approximate the contrast density of plate borders and
// characters.
func (s *Scorer) EdgeScore(r Region) float64 {
	rect := r.Rect().Intersect(s.gray.Bounds())
	if rect.Dx() < 2 || rect.Dy() < 1 {
		return 0
	}
	var edges, pairs int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := y * s.gray.Stride
		for x := rect.Min.X; x < rect.Max.X-1; x++ {
			a := int(s.gray.Pix[row+x])
			b := int(s.gray.Pix[row+x+1])
			if a-b > edgeDelta || b-a > edgeDelta {
				edges++
			}
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(edges) / float64(pairs)
}

// ColorScore rewards regions whose bright-pixel fraction falls in the
// band typical of plates. Plates are bright but not saturated white: a
// fraction in [0.4, 0.8] maps linearly onto [0.5, 1.0]; anything
// outside the band is penalized to a low floor.
func (s *Scorer) ColorScore(r Region) float64 {
	rect := r.Rect().Intersect(s.gray.Bounds())
	if rect.Empty() {
		return 0
	}
	var bright int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := y * s.gray.Stride
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if s.gray.Pix[row+x] >= brightFloor {
				bright++
			}
		}
	}
	frac := float64(bright) / float64(rect.Dx()*rect.Dy())
	if frac < brightBandLow || frac > brightBandHigh {
		return colorScoreFloor
	}
	return 0.5 + (frac-brightBandLow)/(brightBandHigh-brightBandLow)*0.5
}

// PositionScore tiers a region by the vertical position of its center
// relative to the image height. Plates cluster in the lower-middle of
// a vehicle photo: [0.7, 0.9] scores highest, [0.5, 0.95] medium,
// everything else low.
func (s *Scorer) PositionScore(r Region) float64 {
	if s.height == 0 {
		return 0
	}
	center := (float64(r.Y) + float64(r.Height)/2) / float64(s.height)
	switch {
	case center >= 0.7 && center <= 0.9:
		return 1.0
	case center >= 0.5 && center <= 0.95:
		return 0.6
	default:
		return 0.2
	}
}

// TextScore approximates the stroke density of alphanumeric text
// without running the recognizer. The region is downsampled through
// the OCR preprocessing path (fixed small width, binarized) and the
// brightness-transition runs along horizontal scanlines in the middle
// third are counted, normalized against an empirical maximum of
// maxTransitions transitions per line.
func (s *Scorer) TextScore(r Region) float64 {
	crop, err := imaging.Crop(s.gray, r.Rect())
	if err != nil {
		return 0
	}
	w := crop.Bounds().Dx()
	h := crop.Bounds().Dy()
	th := h * textSampleWidth / w
	if th < 1 {
		th = 1
	}
	small, err := imaging.Resize(crop, textSampleWidth, th)
	if err != nil {
		return 0
	}
	binary := imaging.Threshold(imaging.ToGrayscale(small), 128)

	bw := binary.Bounds().Dx()
	bh := binary.Bounds().Dy()
	yStart := bh / 3
	yEnd := 2 * bh / 3
	if yEnd <= yStart {
		yEnd = yStart + 1
	}

	var transitions, lines int
	for y := yStart; y < yEnd && y < bh; y++ {
		row := y * binary.Stride
		for x := 0; x < bw-1; x++ {
			if binary.Pix[row+x] != binary.Pix[row+x+1] {
				transitions++
			}
		}
		lines++
	}
	if lines == 0 {
		return 0
	}
	score := float64(transitions) / float64(lines) / maxTransitions
	if score > 1 {
		score = 1
	}
	return score
}

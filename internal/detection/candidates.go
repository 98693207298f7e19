package detection

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/blur"

	"github.com/plateworks/plate-redact/internal/imaging"
)

// DefaultMaxCandidates bounds the ranked candidate list to limit
// downstream OCR cost.
const DefaultMaxCandidates = 8

// Window presets for the scan strategies: 5 widths x 4 heights of
// typical plate proportions. Combinations that fail the plate-region
// geometry bounds are skipped during scanning.
var (
	presetWidths  = []int{120, 160, 200, 260, 320}
	presetHeights = []int{40, 50, 60, 80}
)

// Edge-density acceptance band for window scans. Text has medium edge
// density: too sparse is background, too dense is noise.
const (
	edgeDensityLow  = 0.05
	edgeDensityHigh = 0.4
)

// Candidate is a scored rectangular hypothesis for a plate location.
type Candidate struct {
	Region Region  `json:"region"`
	Score  float64 `json:"score"`
}

// Generator produces a deduplicated, ranked list of candidate plate
// regions using three independent strategies feeding a common pool.
type Generator struct {
	// MaxCandidates truncates the ranked result. Zero means
	// DefaultMaxCandidates.
	MaxCandidates int
}

// NewGenerator creates a generator with default limits.
func NewGenerator() *Generator {
	return &Generator{MaxCandidates: DefaultMaxCandidates}
}

// Generate runs all three strategies over the image, merges their
// candidates, removes duplicates (earlier-kept region wins), ranks the
// survivors by composite score descending, and truncates the list.
func (g *Generator) Generate(img image.Image) []Candidate {
	gray := imaging.ToGrayscale(img)
	scorer := NewScorer(gray)

	pool := g.edgeCandidates(img, scorer)
	pool = append(pool, g.colorCandidates(gray, scorer)...)
	pool = append(pool, g.bandCandidates(gray, scorer)...)

	kept := Dedupe(pool)
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	limit := g.MaxCandidates
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// edgeCandidates finds high-contrast windows: blur the image, take a
// horizontal gradient map, binarize it against the local mean, and
// keep plate-proportioned windows with medium edge density.
//
// Deliberately a basic gradient threshold, not Sobel plus connected
// components; window density over the binarized gradient is robust
// enough for ranking and far cheaper.
func (g *Generator) edgeCandidates(img image.Image, scorer *Scorer) []Candidate {
	blurred := blur.Gaussian(img, 2)
	gray := imaging.ToGrayscale(blurred)
	grad := horizontalGradient(gray)
	edges := imaging.AdaptiveThreshold(grad, imaging.DefaultThresholdWindow)
	integral := newIntegral(edges, 128)

	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()

	var out []Candidate
	for _, ww := range presetWidths {
		for _, wh := range presetHeights {
			r := Region{Width: ww, Height: wh}
			if !IsValidPlateRegion(r) {
				continue
			}
			for y := 0; y+wh <= h; y += wh / 2 {
				for x := 0; x+ww <= w; x += ww / 2 {
					density := float64(integral.sum(x, y, ww, wh)) / float64(ww*wh)
					if density < edgeDensityLow || density > edgeDensityHigh {
						continue
					}
					region := Region{X: x, Y: y, Width: ww, Height: wh}
					out = append(out, Candidate{
						Region: region,
						Score:  scorer.Score(region).Composite(),
					})
				}
			}
		}
	}
	return out
}

// colorCandidates slides the preset windows across the lower half of
// the image (y in [0.5H, 0.95H]) at a coarse stride and keeps windows
// whose bright-pixel fraction falls in the scorer's plate band.
func (g *Generator) colorCandidates(gray *image.Gray, scorer *Scorer) []Candidate {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	integral := newIntegral(gray, brightFloor)

	yMin := h / 2
	yMax := h * 95 / 100

	var out []Candidate
	for _, ww := range presetWidths {
		for _, wh := range presetHeights {
			r := Region{Width: ww, Height: wh}
			if !IsValidPlateRegion(r) {
				continue
			}
			for y := yMin; y+wh <= yMax; y += wh / 4 {
				for x := 0; x+ww <= w; x += ww / 8 {
					frac := float64(integral.sum(x, y, ww, wh)) / float64(ww*wh)
					if frac < brightBandLow || frac > brightBandHigh {
						continue
					}
					region := Region{X: x, Y: y, Width: ww, Height: wh}
					out = append(out, Candidate{
						Region: region,
						Score:  scorer.Score(region).Composite(),
					})
				}
			}
		}
	}
	return out
}

// bandCandidates evaluates three overlapping full-width bands over the
// lower 35%, 40% and 50% of the image for localized high-contrast
// sub-regions.
func (g *Generator) bandCandidates(gray *image.Gray, scorer *Scorer) []Candidate {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()

	const ww, wh = 240, 60

	var out []Candidate
	for _, frac := range []float64{0.35, 0.40, 0.50} {
		bandTop := h - int(float64(h)*frac)
		for y := bandTop; y+wh <= h; y += wh / 2 {
			for x := 0; x+ww <= w; x += ww / 2 {
				region := Region{X: x, Y: y, Width: ww, Height: wh}
				if !IsValidPlateRegion(region) {
					continue
				}
				if scorer.EdgeScore(region) <= 0.25 {
					continue
				}
				out = append(out, Candidate{
					Region: region,
					Score:  scorer.Score(region).Composite(),
				})
			}
		}
	}
	return out
}

// Dedupe removes near-duplicate candidates. Two candidates are
// duplicates when their intersection area divided by the smaller
// candidate's area exceeds 0.5; the greedy pass keeps the earlier
// candidate. Dedupe is idempotent: running it on its own output
// returns the same set.
func Dedupe(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		duplicate := false
		for _, k := range kept {
			inter := c.Region.IntersectionArea(k.Region)
			smaller := c.Region.Area()
			if a := k.Region.Area(); a < smaller {
				smaller = a
			}
			if smaller > 0 && float64(inter)/float64(smaller) > 0.5 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

// horizontalGradient maps each pixel to the absolute brightness
// difference with its right neighbor. The last column is zero.
func horizontalGradient(gray *image.Gray) *image.Gray {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y * gray.Stride
		orow := y * out.Stride
		for x := 0; x < w-1; x++ {
			d := int(gray.Pix[row+x]) - int(gray.Pix[row+x+1])
			if d < 0 {
				d = -d
			}
			out.Pix[orow+x] = uint8(d)
		}
	}
	return out
}

// integralImage is a summed-area table over a thresholded grayscale
// image, so window scans can count qualifying pixels in O(1).
type integralImage struct {
	w, h int
	sums []int
}

// newIntegral counts pixels with value >= cutoff.
func newIntegral(gray *image.Gray, cutoff uint8) *integralImage {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	ii := &integralImage{w: w, h: h, sums: make([]int, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		row := y * gray.Stride
		var rowSum int
		for x := 0; x < w; x++ {
			if gray.Pix[row+x] >= cutoff {
				rowSum++
			}
			ii.sums[(y+1)*(w+1)+x+1] = ii.sums[y*(w+1)+x+1] + rowSum
		}
	}
	return ii
}

// sum returns the count of qualifying pixels in the w x h window whose
// top-left corner is (x, y).
func (ii *integralImage) sum(x, y, w, h int) int {
	x2, y2 := x+w, y+h
	s := ii.sums
	stride := ii.w + 1
	return s[y2*stride+x2] - s[y*stride+x2] - s[y2*stride+x] + s[y*stride+x]
}

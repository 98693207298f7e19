package detection

import (
	"image"
	"log"

	"github.com/plateworks/plate-redact/internal/imaging"
)

// Recognizer is the pluggable text-recognition capability. Any failure
// is treated as "no text", never as a fatal detection error.
type Recognizer interface {
	// Recognize extracts raw text from a preprocessed plate crop.
	Recognize(img image.Image) (string, error)
}

// Default minimum input dimensions. Images smaller than this cannot
// hold a readable plate and are rejected before any recognizer call.
const (
	DefaultMinImageWidth  = 100
	DefaultMinImageHeight = 100
)

// OCR preprocessing constants, matched to what the recognizer reads
// best: a fixed-width, binarized, dark-on-light crop.
const (
	ocrTargetWidth = 400
	ocrBlurRadius  = 1
	ocrThreshold   = 128
)

// Result is the outcome of a detection pass. Immutable once built.
type Result struct {
	// Found reports whether a plate was detected and classified.
	Found bool `json:"found"`

	// PlateText is the cleaned, corrected plate text when Found.
	PlateText string `json:"plate_text,omitempty"`

	// Format is the matched plate grammar when Found.
	Format Format `json:"format,omitempty"`

	// Region is the accepted candidate's rectangle when Found.
	Region *Region `json:"region,omitempty"`
}

// Detector orchestrates end-to-end plate detection: candidate
// generation, per-candidate OCR, text normalization, and format
// classification with first-accepted-in-rank-order semantics.
type Detector struct {
	generator  *Generator
	recognizer Recognizer

	// MinWidth and MinHeight reject undersized inputs. Zero values
	// fall back to the package defaults.
	MinWidth  int
	MinHeight int
}

// NewDetector builds a detector around the given recognizer.
func NewDetector(recognizer Recognizer) *Detector {
	return &Detector{
		generator:  NewGenerator(),
		recognizer: recognizer,
		MinWidth:   DefaultMinImageWidth,
		MinHeight:  DefaultMinImageHeight,
	}
}

// DetectBytes decodes image bytes and runs detection. Decode failures
// fail fast with a not-found result rather than an error; the caller
// that needs to distinguish a corrupt upload validates the bytes
// before submission.
func (d *Detector) DetectBytes(data []byte) Result {
	img, err := imaging.Decode(data)
	if err != nil {
		return Result{}
	}
	return d.Detect(img)
}

// Detect runs the detection pipeline over a decoded image.
//
// Candidates are evaluated strictly in rank order and the first one
// whose recognized text classifies as a known plate format wins;
// there is no global optimization across candidates. The recognizer
// call is the expensive step, and the ranking front-loads the
// likeliest regions so the average-case cost stays low.
func (d *Detector) Detect(img image.Image) Result {
	if img == nil {
		return Result{}
	}
	minW, minH := d.MinWidth, d.MinHeight
	if minW <= 0 {
		minW = DefaultMinImageWidth
	}
	if minH <= 0 {
		minH = DefaultMinImageHeight
	}
	if img.Bounds().Dx() < minW || img.Bounds().Dy() < minH {
		return Result{}
	}

	for _, candidate := range d.generator.Generate(img) {
		crop, err := imaging.Crop(img, candidate.Region.Rect())
		if err != nil {
			continue
		}
		prepared, err := PreprocessPlate(crop)
		if err != nil {
			continue
		}

		raw, err := d.recognizer.Recognize(prepared)
		if err != nil {
			// Recognizer failures degrade to "no text" for this
			// candidate, never abort the pass.
			log.Printf("recognizer failed on candidate %+v: %v", candidate.Region, err)
			continue
		}
		if raw == "" {
			continue
		}

		text := Correct(Clean(raw))
		format, ok := Classify(text)
		if !ok || format == FormatUnknown {
			continue
		}

		region := candidate.Region
		return Result{
			Found:     true,
			PlateText: text,
			Format:    format,
			Region:    &region,
		}
	}
	return Result{}
}

// PreprocessPlate normalizes a plate crop for the recognizer: resize
// to a fixed small width preserving aspect, grayscale, light blur,
// global threshold, then polarity normalization so characters read
// dark on light.
func PreprocessPlate(crop image.Image) (image.Image, error) {
	w := crop.Bounds().Dx()
	h := crop.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, imaging.ErrEmptyRegion
	}

	th := h * ocrTargetWidth / w
	if th < 1 {
		th = 1
	}
	resized, err := imaging.Resize(crop, ocrTargetWidth, th)
	if err != nil {
		return nil, err
	}

	blurred := imaging.BoxBlur(imaging.ToGrayscale(resized), ocrBlurRadius)
	binary := imaging.Threshold(imaging.ToGrayscale(blurred), ocrThreshold)

	// Count dark pixels; a majority-dark crop is light-on-dark and
	// gets inverted.
	var dark int
	total := binary.Bounds().Dx() * binary.Bounds().Dy()
	for y := 0; y < binary.Bounds().Dy(); y++ {
		row := y * binary.Stride
		for x := 0; x < binary.Bounds().Dx(); x++ {
			if binary.Pix[row+x] == 0 {
				dark++
			}
		}
	}
	if dark*2 > total {
		return imaging.Invert(binary), nil
	}
	return binary, nil
}

// Package redact irreversibly obscures license-plate regions for
// privacy: gaussian blur plus pixelation inside the target region,
// finished with a visible border and label so the redaction reads as
// intentional rather than as image damage.
package redact

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/plateworks/plate-redact/internal/detection"
	"github.com/plateworks/plate-redact/internal/imaging"
)

// Redaction geometry and strength parameters.
const (
	// expandFraction grows the detected region on each axis so the
	// blur fully covers plate edges.
	expandFraction = 0.15
	minExpandX     = 8
	minExpandY     = 5

	// Blur and pixelation floors; both scale up with region size.
	minBlurRadius = 4
	minBlockSize  = 8

	// A region must exceed this size before the label is drawn.
	labelMinWidth  = 90
	labelMinHeight = 25

	// Oversized detections are distrusted: wider than 80% of the
	// image or taller than 40% of it means the region is estimated
	// instead.
	maxRegionWidthFrac  = 0.8
	maxRegionHeightFrac = 0.4

	borderThickness = 3
	labelText       = "REDACTED"
)

// Default output constraints, matching the original service.
const (
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1080
)

// Marker palette. The shadow is the border hue with the lightness
// pulled down, so the label stays legible on any blurred background.
var (
	borderColor = mustHex("#e63946")
	labelColor  = mustHex("#ffffff")
	shadowColor = darken(mustHex("#e63946"), 0.12)
)

// Redactor applies privacy redaction and output compression.
type Redactor struct {
	// JPEGQuality for encoded output (1-100). Zero means the package
	// default.
	JPEGQuality int

	// MaxWidth and MaxHeight bound the output image; larger inputs
	// are downscaled to fit before redaction. Zero disables the
	// bound for that axis.
	MaxWidth  int
	MaxHeight int
}

// New creates a redactor with default quality and output bounds.
func New() *Redactor {
	return &Redactor{
		JPEGQuality: imaging.DefaultJPEGQuality,
		MaxWidth:    DefaultMaxWidth,
		MaxHeight:   DefaultMaxHeight,
	}
}

// TargetRegion resolves the rectangle Redact will actually modify.
//
// A usable detected region is expanded by expandFraction per side
// (with pixel minimums) and clamped to the image. A missing, out of
// bounds, or implausibly large region is replaced by a heuristic
// estimate: centered horizontally, width about a third of the image,
// height a third of that, placed at 75% of image height.
func (r *Redactor) TargetRegion(bounds image.Rectangle, region *detection.Region) image.Rectangle {
	w := bounds.Dx()
	h := bounds.Dy()

	if !usableRegion(region, w, h) {
		ew := w * 3 / 10
		eh := ew / 3
		ex := (w - ew) / 2
		ey := h * 3 / 4
		if ey+eh > h {
			ey = h - eh
		}
		return image.Rect(ex, ey, ex+ew, ey+eh).Intersect(bounds)
	}

	dx := int(float64(region.Width) * expandFraction)
	if dx < minExpandX {
		dx = minExpandX
	}
	dy := int(float64(region.Height) * expandFraction)
	if dy < minExpandY {
		dy = minExpandY
	}
	return image.Rect(
		region.X-dx,
		region.Y-dy,
		region.X+region.Width+dx,
		region.Y+region.Height+dy,
	).Intersect(bounds)
}

// usableRegion reports whether a detected region can be redacted as
// given: present, positive area, inside the image, and not so large
// that it is plainly a false positive.
func usableRegion(region *detection.Region, imgW, imgH int) bool {
	if region == nil || region.Width <= 0 || region.Height <= 0 {
		return false
	}
	if region.X < 0 || region.Y < 0 ||
		region.X+region.Width > imgW || region.Y+region.Height > imgH {
		return false
	}
	if float64(region.Width) > maxRegionWidthFrac*float64(imgW) ||
		float64(region.Height) > maxRegionHeightFrac*float64(imgH) {
		return false
	}
	return true
}

// Redact obscures the plate region of the image and returns a new
// image. Pixels strictly outside the final clamped region are never
// modified.
func (r *Redactor) Redact(src image.Image, region *detection.Region) (*image.RGBA, error) {
	img := imaging.ToRGBA(src)
	target := r.TargetRegion(img.Bounds(), region)
	if target.Empty() {
		return nil, fmt.Errorf("redact: %w", imaging.ErrEmptyRegion)
	}

	blurRadius := min(target.Dx(), target.Dy()) / 10
	if blurRadius < minBlurRadius {
		blurRadius = minBlurRadius
	}
	if err := imaging.GaussianBlurRegion(img, target, blurRadius); err != nil {
		return nil, err
	}

	blockSize := target.Dx() / 12
	if blockSize < minBlockSize {
		blockSize = minBlockSize
	}
	if err := imaging.Pixelate(img, target, blockSize); err != nil {
		return nil, err
	}

	drawBorder(img, target)
	if target.Dx() > labelMinWidth && target.Dy() > labelMinHeight {
		drawLabel(img, target)
	}
	return img, nil
}

// RedactJPEG runs the full output path: downscale oversized images to
// the configured bounds, rescale the region to match, redact, and
// encode as JPEG.
func (r *Redactor) RedactJPEG(src image.Image, region *detection.Region) ([]byte, error) {
	fitted, scaled := r.fit(src, region)
	redacted, err := r.Redact(fitted, scaled)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeJPEG(redacted, r.quality())
}

// CompressJPEG is the no-plate path: downscale if oversized and
// re-encode without modification.
func (r *Redactor) CompressJPEG(src image.Image) ([]byte, error) {
	fitted, _ := r.fit(src, nil)
	return imaging.EncodeJPEG(fitted, r.quality())
}

// fit downscales the image to the configured maximum dimensions,
// preserving aspect ratio, and rescales the region by the same
// factors. Images already within bounds pass through untouched.
func (r *Redactor) fit(src image.Image, region *detection.Region) (image.Image, *detection.Region) {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if (r.MaxWidth <= 0 || w <= r.MaxWidth) && (r.MaxHeight <= 0 || h <= r.MaxHeight) {
		return src, region
	}

	scale := 1.0
	if r.MaxWidth > 0 {
		scale = float64(r.MaxWidth) / float64(w)
	}
	if r.MaxHeight > 0 {
		if s := float64(r.MaxHeight) / float64(h); s < scale {
			scale = s
		}
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	fitted, err := imaging.Resize(src, nw, nh)
	if err != nil {
		return src, region
	}

	if region == nil {
		return fitted, nil
	}
	scaled := detection.Region{
		X:      int(float64(region.X) * scale),
		Y:      int(float64(region.Y) * scale),
		Width:  int(float64(region.Width) * scale),
		Height: int(float64(region.Height) * scale),
	}
	return fitted, &scaled
}

func (r *Redactor) quality() int {
	if r.JPEGQuality > 0 {
		return r.JPEGQuality
	}
	return imaging.DefaultJPEGQuality
}

// drawBorder paints a rectangular frame just inside the region.
func drawBorder(img *image.RGBA, target image.Rectangle) {
	for t := 0; t < borderThickness; t++ {
		inner := target.Inset(t)
		if inner.Empty() {
			return
		}
		for x := inner.Min.X; x < inner.Max.X; x++ {
			img.SetRGBA(x, inner.Min.Y, borderColor)
			img.SetRGBA(x, inner.Max.Y-1, borderColor)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			img.SetRGBA(inner.Min.X, y, borderColor)
			img.SetRGBA(inner.Max.X-1, y, borderColor)
		}
	}
}

// drawLabel centers the redaction label in the region with a one-pixel
// drop shadow.
func drawLabel(img *image.RGBA, target image.Rectangle) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, labelText).Ceil()

	x := target.Min.X + (target.Dx()-textWidth)/2
	y := target.Min.Y + (target.Dy()+face.Ascent)/2

	drawString(img, target, face, labelText, x+1, y+1, shadowColor)
	drawString(img, target, face, labelText, x, y, labelColor)
}

// drawString renders text clipped to the target region so the label
// can never leak outside the redacted area.
func drawString(img *image.RGBA, clip image.Rectangle, face font.Face, s string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  img.SubImage(clip).(*image.RGBA),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func mustHex(s string) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// darken returns the color with its HSL lightness replaced.
func darken(c color.RGBA, lightness float64) color.RGBA {
	cf, _ := colorful.MakeColor(c)
	h, s, _ := cf.Hsl()
	r, g, b := colorful.Hsl(h, s, lightness).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

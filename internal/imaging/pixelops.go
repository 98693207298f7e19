package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// DefaultThresholdWindow is the local-mean window used by
// AdaptiveThreshold when the caller passes a non-positive window.
const DefaultThresholdWindow = 15

// ToRGBA returns a mutable RGBA copy of src with bounds normalized to
// start at (0,0).
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ToGrayscale converts an image to grayscale using ITU-R BT.601
// luminance weights (0.299*R + 0.587*G + 0.114*B).
func ToGrayscale(src image.Image) *image.Gray {
	gray := imaging.Grayscale(src)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Grayscale output has equal channels; the red channel
			// carries the luminance.
			out.Pix[y*out.Stride+x] = gray.Pix[y*gray.Stride+x*4]
		}
	}
	return out
}

// BoxBlur applies an unweighted mean filter with the given radius.
//
// Each output pixel is the mean of the (2*radius+1)^2 neighborhood.
// Neighbors outside the image bounds are excluded from the average,
// never wrapped or mirrored, so edge pixels average over a smaller
// neighborhood.
func BoxBlur(src image.Image, radius int) *image.RGBA {
	img := ToRGBA(src)
	if radius <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, count int
			for dy := -radius; dy <= radius; dy++ {
				py := y + dy
				if py < 0 || py >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					px := x + dx
					if px < 0 || px >= w {
						continue
					}
					i := py*img.Stride + px*4
					r += int(img.Pix[i])
					g += int(img.Pix[i+1])
					b += int(img.Pix[i+2])
					count++
				}
			}
			o := y*out.Stride + x*4
			out.Pix[o] = uint8(r / count)
			out.Pix[o+1] = uint8(g / count)
			out.Pix[o+2] = uint8(b / count)
			out.Pix[o+3] = 255
		}
	}
	return out
}

// GaussianBlurRegion blurs the given region of img in place using a
// separable 1-D gaussian kernel of size 2*radius+1 with sigma=radius/3.
//
// Kernel sampling is clamped to the region bounds rather than the full
// image, so the blur never pulls pixels from outside the redaction
// target into it. Pixels outside the region are untouched.
func GaussianBlurRegion(img *image.RGBA, region image.Rectangle, radius int) error {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return fmt.Errorf("gaussian blur: %w", ErrEmptyRegion)
	}
	if radius <= 0 {
		return nil
	}

	kernel := gaussianKernel(radius)
	w := region.Dx()
	h := region.Dy()

	// Horizontal pass into a region-sized scratch buffer.
	tmp := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				i := (region.Min.Y+y)*img.Stride + (region.Min.X+sx)*4
				kv := kernel[k+radius]
				r += float64(img.Pix[i]) * kv
				g += float64(img.Pix[i+1]) * kv
				b += float64(img.Pix[i+2]) * kv
			}
			o := (y*w + x) * 3
			tmp[o] = r
			tmp[o+1] = g
			tmp[o+2] = b
		}
	}

	// Vertical pass back into the image.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				o := (sy*w + x) * 3
				kv := kernel[k+radius]
				r += tmp[o] * kv
				g += tmp[o+1] * kv
				b += tmp[o+2] * kv
			}
			i := (region.Min.Y+y)*img.Stride + (region.Min.X+x)*4
			img.Pix[i] = uint8(clampFloat(r, 0, 255))
			img.Pix[i+1] = uint8(clampFloat(g, 0, 255))
			img.Pix[i+2] = uint8(clampFloat(b, 0, 255))
		}
	}
	return nil
}

// gaussianKernel builds a normalized 1-D gaussian kernel of size
// 2*radius+1 with sigma = radius/3.
func gaussianKernel(radius int) []float64 {
	sigma := float64(radius) / 3.0
	if sigma <= 0 {
		sigma = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// AdaptiveThreshold binarizes a grayscale image against the local mean
// of a window x window neighborhood (clamped at image edges) instead of
// a single global threshold. Pixels brighter than their local mean
// become white (255), the rest black (0).
//
// Plate lighting varies across a photo, which makes a global threshold
// unreliable; the local mean tracks that variation.
func AdaptiveThreshold(src *image.Gray, window int) *image.Gray {
	if window <= 0 {
		window = DefaultThresholdWindow
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	half := window / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, count int
			for dy := -half; dy <= half; dy++ {
				py := y + dy
				if py < 0 || py >= h {
					continue
				}
				for dx := -half; dx <= half; dx++ {
					px := x + dx
					if px < 0 || px >= w {
						continue
					}
					sum += int(src.Pix[py*src.Stride+px])
					count++
				}
			}
			mean := sum / count
			if int(src.Pix[y*src.Stride+x]) > mean {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// Threshold binarizes a grayscale image against a single global cutoff.
// Used by the OCR preprocessing path where the plate crop has already
// been normalized.
func Threshold(src *image.Gray, cutoff uint8) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[y*src.Stride+x] > cutoff {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// Pixelate replaces the region with a mosaic of blockSize x blockSize
// blocks, each filled with the block's mean color. The last row and
// column of blocks are clipped to the region extent. The image is
// modified in place; pixels outside the region are untouched.
func Pixelate(img *image.RGBA, region image.Rectangle, blockSize int) error {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return fmt.Errorf("pixelate: %w", ErrEmptyRegion)
	}
	if blockSize <= 1 {
		return nil
	}

	for by := region.Min.Y; by < region.Max.Y; by += blockSize {
		for bx := region.Min.X; bx < region.Max.X; bx += blockSize {
			maxX := bx + blockSize
			if maxX > region.Max.X {
				maxX = region.Max.X
			}
			maxY := by + blockSize
			if maxY > region.Max.Y {
				maxY = region.Max.Y
			}

			var r, g, b, count int
			for y := by; y < maxY; y++ {
				for x := bx; x < maxX; x++ {
					i := y*img.Stride + x*4
					r += int(img.Pix[i])
					g += int(img.Pix[i+1])
					b += int(img.Pix[i+2])
					count++
				}
			}
			mr := uint8(r / count)
			mg := uint8(g / count)
			mb := uint8(b / count)
			for y := by; y < maxY; y++ {
				for x := bx; x < maxX; x++ {
					i := y*img.Stride + x*4
					img.Pix[i] = mr
					img.Pix[i+1] = mg
					img.Pix[i+2] = mb
				}
			}
		}
	}
	return nil
}

// Resize resamples an image to the exact target dimensions using
// bilinear interpolation. Aspect ratio is the caller's responsibility.
func Resize(src image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, ErrEmptyRegion)
	}
	return imaging.Resize(src, width, height, imaging.Linear), nil
}

// Invert returns a color-negative of the image. The OCR preprocessing
// path uses it to normalize polarity so characters read dark-on-light.
func Invert(src image.Image) *image.RGBA {
	return effect.Invert(src)
}

// Crop extracts a sub-image covering the given region, clamped to the
// source bounds. Returns ErrEmptyRegion when nothing remains after
// clamping.
func Crop(src image.Image, region image.Rectangle) (image.Image, error) {
	region = region.Intersect(src.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("crop: %w", ErrEmptyRegion)
	}
	return imaging.Crop(src, region), nil
}

// MeanBrightness returns the average luminance of the region in src,
// in the range 0-255. The region is clamped to the image bounds.
func MeanBrightness(src *image.Gray, region image.Rectangle) float64 {
	region = region.Intersect(src.Bounds())
	if region.Empty() {
		return 0
	}
	var sum int
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			sum += int(src.Pix[y*src.Stride+x])
		}
	}
	return float64(sum) / float64(region.Dx()*region.Dy())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

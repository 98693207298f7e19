// Package imaging provides the pixel-level operations the detection and
// redaction pipelines are built from.
//
// This package implements the stateless per-pixel and windowed transforms
// (grayscale conversion, box and gaussian blur, adaptive thresholding,
// pixelation, resizing, color inversion) plus decoding, validation, and
// JPEG encoding of image bytes. All operations work with standard Go
// image types and a coordinate system where (0,0) is the top-left corner,
// X increases rightward, and Y increases downward.
//
// # Boundary Semantics
//
// The blur and pixelation operations have fixed boundary behavior that
// the rest of the pipeline depends on:
//
//   - BoxBlur excludes out-of-bounds neighbors from the mean; it never
//     wraps or mirrors.
//   - GaussianBlurRegion clamps kernel sampling to the target region
//     itself, not the full image, so blur never bleeds pixels from
//     outside the region into it.
//   - Pixelate clips the last row and column of blocks to the region
//     extent.
//
// # Error Handling
//
// Operations on empty regions and undecodable inputs return typed
// failures (ErrEmptyRegion, ErrDecode, ErrImageTooSmall) rather than
// silently producing empty images. Match them with errors.Is.
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently on distinct
// images. In-place operations (GaussianBlurRegion, Pixelate) mutate
// their argument and must be externally synchronized if the image is
// shared.
package imaging

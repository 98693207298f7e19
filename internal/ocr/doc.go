// Package ocr wraps the Tesseract engine for plate text recognition.
//
// Recognition runs on small preprocessed plate crops, not whole frames, so
// Tesseract is tuned for single-word uppercase reading: the character set is
// restricted to A-Z and 0-9 and page segmentation treats the input as one
// word. Raw output still needs cleanup and confusion correction downstream.
//
// # Prerequisites
//
// The gosseract binding requires CGO and a system Tesseract installation:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data must be installed for the configured language (eng by
// default): apt-get install tesseract-ocr-eng.
//
// Builds without CGO compile against a stub whose Recognize always fails
// with ErrUnavailable. Detection then degrades to "no plate found" rather
// than crashing the service.
package ocr

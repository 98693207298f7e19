// Package detection locates and reads vehicle license plates in photos.
//
// The pipeline is heuristic rather than learned: candidate plate
// rectangles are generated by three independent window-scan strategies,
// scored on explainable features (edge density, brightness, vertical
// position, text-stroke density), deduplicated, and handed to an
// external text recognizer in rank order. The first candidate whose
// recognized text classifies as a valid plate format wins.
//
// # Candidate Strategies
//
//   - Edge-based: gradient thresholding finds high-contrast windows
//     typical of plate borders and characters.
//   - Color-based: plate-proportioned windows over the lower half of
//     the image are kept when their bright-pixel fraction falls in the
//     band typical of plates (bright but not saturated white).
//   - Systematic: overlapping full-width bands across the lower part of
//     the image are scanned for localized high-contrast sub-regions.
//
// # Confidence Scores
//
// Candidate scores are composites in [0,1]:
//
//	0.3*edge + 0.3*color + 0.2*position + 0.2*text
//
// Scores rank candidates to front-load the likeliest regions; the
// recognizer call is the expensive step, and ranking keeps the
// average-case cost low via early exit.
//
// # Plate Formats
//
// Recognized text is cleaned, corrected for position-dependent OCR
// confusions, and classified against the two Brazilian plate grammars:
// Mercosul (LLLDLDD) and legacy (LLLDDDD). Text that is not exactly
// seven characters is rejected outright.
//
// # Coordinate System
//
// Regions use image pixel coordinates with origin at the top-left
// corner, X increasing rightward and Y increasing downward.
package detection

package detection

import (
	"regexp"
	"strings"
)

// Format identifies the character grammar of a recognized plate.
type Format string

const (
	// FormatMercosul is the Mercosul grammar: 3 letters, digit,
	// letter, 2 digits (e.g. ABC1D23).
	FormatMercosul Format = "MERCOSUL"

	// FormatLegacy is the pre-Mercosul grammar: 3 letters, 4 digits
	// (e.g. ABC1234).
	FormatLegacy Format = "LEGACY"

	// FormatUnknown is a 7-character string matching neither grammar.
	FormatUnknown Format = "UNKNOWN"
)

// plateLength is the fixed plate text length both grammars share.
const plateLength = 7

var (
	mercosulPattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	legacyPattern   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
)

// OCR confusion maps, applied by grammar position. Both grammars open
// with three letters and close with digits, so the corrections are
// biased accordingly. Position 4 discriminates the two formats and is
// never touched.
var (
	digitToLetter = map[byte]byte{
		'0': 'O', '1': 'I', '3': 'B', '4': 'A', '5': 'S',
		'6': 'G', '7': 'T', '8': 'B', '9': 'P',
	}
	letterToDigit = map[byte]byte{
		'O': '0', 'I': '1', 'Z': '2', 'B': '8',
		'S': '5', 'G': '6', 'T': '7', 'P': '9',
	}
)

// Clean strips everything outside [A-Z0-9] from raw recognizer output,
// upper-casing first.
func Clean(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Correct applies position-aware OCR confusion correction tuned to the
// 7-character plate grammar:
//
//   - positions 0-2 are biased toward letters (digit -> letter)
//   - position 3 is biased toward a digit (letter -> digit)
//   - position 4 is the format-discriminating slot and is untouched
//   - positions 5-6 are biased toward digits
//
// Strings longer than 7 characters are truncated to the first 7;
// shorter strings are returned unmodified.
func Correct(text string) string {
	if len(text) < plateLength {
		return text
	}
	b := []byte(text[:plateLength])
	for i := 0; i < 3; i++ {
		if sub, ok := digitToLetter[b[i]]; ok {
			b[i] = sub
		}
	}
	if sub, ok := letterToDigit[b[3]]; ok {
		b[3] = sub
	}
	for i := 5; i < plateLength; i++ {
		if sub, ok := letterToDigit[b[i]]; ok {
			b[i] = sub
		}
	}
	return string(b)
}

// Classify matches text against the plate grammars. It requires
// exactly 7 characters: anything else is rejected outright (ok=false),
// which is distinct from a 7-character string that matches neither
// grammar (FormatUnknown, ok=true).
func Classify(text string) (Format, bool) {
	if len(text) != plateLength {
		return "", false
	}
	switch {
	case mercosulPattern.MatchString(text):
		return FormatMercosul, true
	case legacyPattern.MatchString(text):
		return FormatLegacy, true
	default:
		return FormatUnknown, true
	}
}

package usecase

import "regexp"

var (
	// diameterKeywordRegex recognizes explicit diameter vocabulary. The ø
	// symbol has no word boundary so it is matched separately.
	diameterKeywordRegex = regexp.MustCompile(`(?i)\b(diameter|dia|round|circle|circular)\b|ø`)

	// pairTokenRegex detects an NxN token; a value containing one is a
	// length×width pair, never a diameter.
	pairTokenRegex = regexp.MustCompile(`(?i)\d\s*[x×]`)
)

// ParseDiameterString parses a round-product dimension to centimeters. The
// value must either carry a diameter keyword itself or the caller must pass
// assumeDiameter, derived from the option's own name (e.g. "Diameter",
// "Round Size").
func (e *DimensionExtractor) ParseDiameterString(text string, assumeDiameter bool) (float64, string, bool) {
	if pairTokenRegex.MatchString(text) {
		return 0, "", false
	}
	if !assumeDiameter && !diameterKeywordRegex.MatchString(text) {
		return 0, "", false
	}

	if cm, raw, ok := ParseSingleLinearToCm(text); ok {
		return cm, raw, true
	}

	// Diameter context established but no unit token: infer from magnitude.
	if value, ok := parseBareNumber(text); ok {
		unit := e.InferUnlabeledLinearUnit(text, value)
		return LinearToCm(value, unit), text, true
	}

	return 0, "", false
}

// HasDiameterKeyword reports whether the text names a diameter explicitly.
func HasDiameterKeyword(text string) bool {
	return diameterKeywordRegex.MatchString(text)
}

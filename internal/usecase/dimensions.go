package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// sizePairRegex matches "N [unit]? x N [unit]?" with optional single-letter
// annotations between the sides, covering forms like `72" x 26"`,
// "183cm x 61cm" and `68" L x 24" W`.
var sizePairRegex = regexp.MustCompile(
	`(?i)(\d+(?:\.\d+)?)\s*((?:inches|inch|in|feet|foot|ft|cm|mm)\b|["'])?\s*(?:[a-z]\.?\s+)?[x×]\s*(\d+(?:\.\d+)?)\s*((?:inches|inch|in|feet|foot|ft|cm|mm)\b|["'])?`,
)

// singleDimensionKeywords disambiguate a lone measurement. Checked before
// the numeric tie-break.
var (
	lengthKeywordRegex = regexp.MustCompile(`(?i)\b(long|length|tall|standard|extended)\b`)
	widthKeywordRegex  = regexp.MustCompile(`(?i)\b(wide|width|narrow)\b`)
)

// SizePairCm is a parsed length×width pair, both sides in centimeters.
type SizePairCm struct {
	LengthCm float64
	WidthCm  float64
	Raw      string
}

// ParseDimensionString parses one catalog option value into either a
// length×width pair or a single length. A pair match always beats a single
// match on the same text. Returns (pair, nil) or (nil, single) or (nil, nil).
func (e *DimensionExtractor) ParseDimensionString(text string) (*SizePairCm, *float64) {
	if pair := e.parseSizePair(text); pair != nil {
		return pair, nil
	}
	if cm, _, ok := ParseSingleLinearToCm(text); ok {
		return nil, &cm
	}
	return nil, nil
}

// parseSizePair finds all pair matches in the text and selects the first one
// carrying a metric unit token on either side; mixed-unit annotations like
// `72" x 26" (183cm x 66cm)` must resolve to the metric reading. If no match
// has any explicit unit, both sides are inferred jointly from magnitude.
func (e *DimensionExtractor) parseSizePair(text string) *SizePairCm {
	matches := sizePairRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	chosen := matches[0]
	for _, m := range matches {
		if isMetricUnit(normalizeLinearUnit(m[2])) || isMetricUnit(normalizeLinearUnit(m[4])) {
			chosen = m
			break
		}
	}

	first, err1 := strconv.ParseFloat(chosen[1], 64)
	second, err2 := strconv.ParseFloat(chosen[3], 64)
	if err1 != nil || err2 != nil {
		return nil
	}

	unit1 := normalizeLinearUnit(chosen[2])
	unit2 := normalizeLinearUnit(chosen[4])
	switch {
	case unit1 == "" && unit2 == "":
		// No explicit unit on either side: infer jointly, so "180 x 66"
		// reads as centimeters even though 66 alone would read as inches.
		joint := unitInch
		if first >= e.thresholds.UnlabeledCmThreshold || second >= e.thresholds.UnlabeledCmThreshold {
			joint = unitCm
		}
		unit1, unit2 = joint, joint
	case unit1 == "":
		unit1 = unit2
	case unit2 == "":
		unit2 = unit1
	}

	return &SizePairCm{
		LengthCm: LinearToCm(first, unit1),
		WidthCm:  LinearToCm(second, unit2),
		Raw:      strings.TrimSpace(chosen[0]),
	}
}

// HasSizePair reports whether the text contains an NxN pair token.
func HasSizePair(text string) bool {
	return sizePairRegex.MatchString(text)
}

// ClassifySingleDimension decides whether a lone measurement denotes a
// length or a width. Keyword context wins; otherwise values above the length
// threshold read as length, below the width threshold as width, and the
// ambiguous middle band defaults to length since ambiguous single-dimension
// options more often denote length in this domain.
func (e *DimensionExtractor) ClassifySingleDimension(text string, valueCm float64) OptionKind {
	if lengthKeywordRegex.MatchString(text) {
		return KindLength
	}
	if widthKeywordRegex.MatchString(text) {
		return KindWidth
	}
	if valueCm > e.thresholds.LengthCmThreshold {
		return KindLength
	}
	if valueCm < e.thresholds.WidthCmThreshold {
		return KindWidth
	}
	return KindLength
}

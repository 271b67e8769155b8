package usecase

import "regexp"

// OptionKind is the semantic class of a product option, decided by majority
// vote over the option's value set.
type OptionKind string

const (
	KindThickness  OptionKind = "thickness"
	KindDiameter   OptionKind = "diameter"
	KindDimensions OptionKind = "dimensions"
	KindLength     OptionKind = "length"
	KindWidth      OptionKind = "width"
	KindColor      OptionKind = "color"
	KindUnknown    OptionKind = "unknown"
)

// Per-value pattern classes for the majority vote.
var (
	classMmTokenRegex   = regexp.MustCompile(`(?i)\d\s*mm\b`)
	classLengthRegex    = regexp.MustCompile(`(?i)\b(long|tall|standard|extended)\b`)
	containsDigitRegex  = regexp.MustCompile(`\d`)
)

// ClassifyOptionValues classifies an option's semantic kind by majority vote
// over per-value pattern matches. Catalog options mix dimension encodings
// inconsistently across brands, so a single outlier value must not mis-tag
// an otherwise-clear option: a class wins when its count reaches 50% of ALL
// values, non-matching values included in the denominator. Options with no
// majority default to color.
func ClassifyOptionValues(values []string) OptionKind {
	if len(values) == 0 {
		return KindUnknown
	}

	var thickness, diameter, dimensions, length int
	for _, value := range values {
		hasDigit := containsDigitRegex.MatchString(value)
		switch {
		case classMmTokenRegex.MatchString(value):
			thickness++
		case hasDigit && diameterKeywordRegex.MatchString(value):
			diameter++
		case pairTokenRegex.MatchString(value):
			dimensions++
		case hasDigit && classLengthRegex.MatchString(value):
			length++
		}
	}

	total := len(values)
	switch {
	case thickness*2 >= total && thickness > 0:
		return KindThickness
	case diameter*2 >= total && diameter > 0:
		return KindDiameter
	case dimensions*2 >= total && dimensions > 0:
		return KindDimensions
	case length*2 >= total && length > 0:
		return KindLength
	default:
		return KindColor
	}
}

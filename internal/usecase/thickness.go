package usecase

import (
	"regexp"
	"strconv"
)

// Thickness patterns in priority order: explicit millimeter token, then
// fractional inches, then decimal inches.
var (
	thicknessMmRegex       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:mm|millimeters?|millimetres?)\b`)
	thicknessFractionRegex = regexp.MustCompile(`(?i)(\d+)\s*/\s*(\d+)\s*(?:inches|inch|in\b|")`)
	thicknessInchRegex     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:inches|inch|in\b|")`)
)

// ThicknessParse is the result of parsing a thickness string. ExplicitUnit
// is false only for the bare-number reading, which callers accept or reject
// from context.
type ThicknessParse struct {
	Mm           float64
	ExplicitUnit bool
	Raw          string
}

// ParseThicknessString parses a thickness expression to millimeters.
// Millimeter tokens and fractional inches are unambiguous and always
// accepted. allowContextual additionally accepts decimal inches and naked
// numbers (read as probably-millimeters); only callers with thickness
// context (an option named "Thickness", or a value set classified as
// thickness) should enable it, since a decimal-inch reading of a value like
// `Standard 71"` would otherwise swallow lengths.
func ParseThicknessString(text string, allowContextual bool) (ThicknessParse, bool) {
	if m := thicknessMmRegex.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return ThicknessParse{Mm: value, ExplicitUnit: true, Raw: m[0]}, true
		}
	}

	if m := thicknessFractionRegex.FindStringSubmatch(text); m != nil {
		numerator, err1 := strconv.ParseFloat(m[1], 64)
		denominator, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && denominator != 0 {
			return ThicknessParse{Mm: numerator / denominator * mmPerInch, ExplicitUnit: true, Raw: m[0]}, true
		}
	}

	if allowContextual {
		if m := thicknessInchRegex.FindStringSubmatch(text); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return ThicknessParse{Mm: value * mmPerInch, ExplicitUnit: true, Raw: m[0]}, true
			}
		}
		if value, ok := parseBareNumber(text); ok {
			return ThicknessParse{Mm: value, ExplicitUnit: false, Raw: text}, true
		}
	}

	return ThicknessParse{}, false
}

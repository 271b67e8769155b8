package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	// Matches a number followed by a linear unit token: "183cm", "26 in",
	// "6.2ft", `72"`, "71'". Word units need a trailing boundary so "180
	// inwards" does not read as 180 inches.
	linearMeasurementRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*((?:inches|inch|in|feet|foot|ft|cm|mm)\b|["'])`)

	// Matches a bare number with no unit token attached.
	bareNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// Matches a linear unit token standing on its own in surrounding text,
	// used by unlabeled-unit inference before falling back to magnitude.
	// Bare "in" is excluded: as a loose token it is almost always the
	// English preposition.
	looseUnitTokenRegex = regexp.MustCompile(`(?i)\b(inches|inch|feet|foot|ft|cm|mm)\b|["']`)
)

// LinearMeasurement is one (value, unit) pair found in free text. Unit is
// already normalized; Raw preserves the matched span.
type LinearMeasurement struct {
	Value float64
	Unit  string
	Raw   string
}

// FindLinearMeasurements scans free text and returns every measurement token
// in order of appearance.
func FindLinearMeasurements(text string) []LinearMeasurement {
	matches := linearMeasurementRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	measurements := make([]LinearMeasurement, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := normalizeLinearUnit(m[2])
		if unit == "" {
			continue
		}
		measurements = append(measurements, LinearMeasurement{
			Value: value,
			Unit:  unit,
			Raw:   strings.TrimSpace(m[0]),
		})
	}
	return measurements
}

// ParseSingleLinearToCm selects the single best measurement from ambiguous
// text and converts it to centimeters. Metric candidates win over imperial
// ones: catalog strings like `Standard 71" / 180cm` should resolve to the
// metric annotation.
func ParseSingleLinearToCm(text string) (float64, string, bool) {
	measurements := FindLinearMeasurements(text)
	if len(measurements) == 0 {
		return 0, "", false
	}

	for _, m := range measurements {
		if isMetricUnit(m.Unit) {
			return LinearToCm(m.Value, m.Unit), m.Raw, true
		}
	}

	first := measurements[0]
	return LinearToCm(first.Value, first.Unit), first.Raw, true
}

// InferUnlabeledLinearUnit guesses the unit of a bare number. A unit token
// anywhere in the surrounding text wins; otherwise magnitudes at or above
// the configured threshold read as centimeters, below it as inches. Mats are
// long enough in cm and short enough in inches that the two ranges rarely
// overlap.
func (e *DimensionExtractor) InferUnlabeledLinearUnit(surroundingText string, value float64) string {
	if m := looseUnitTokenRegex.FindString(surroundingText); m != "" {
		if unit := normalizeLinearUnit(m); unit != "" {
			return unit
		}
	}
	if value >= e.thresholds.UnlabeledCmThreshold {
		return unitCm
	}
	return unitInch
}

// parseBareNumber extracts the first number from text that carries no linear
// unit token at all. Used by callers that decide from context what a naked
// number means.
func parseBareNumber(text string) (float64, bool) {
	if linearMeasurementRegex.MatchString(text) {
		return 0, false
	}
	m := bareNumberRegex.FindString(text)
	if m == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

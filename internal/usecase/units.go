package usecase

import "strings"

// Linear unit tokens after normalization.
const (
	unitCm   = "cm"
	unitMm   = "mm"
	unitInch = "in"
	unitFoot = "ft"
)

// Conversion factors to centimeters / kilograms.
const (
	cmPerInch   = 2.54
	cmPerFoot   = 30.48
	mmPerInch   = 25.4
	gramsPerLb  = 453.592
	lbPerKg     = 2.20462
)

// LinearToCm converts a linear measurement to centimeters. Unknown units
// pass the value through unchanged.
func LinearToCm(value float64, unit string) float64 {
	switch unit {
	case unitCm:
		return value
	case unitMm:
		return value / 10
	case unitInch:
		return value * cmPerInch
	case unitFoot:
		return value * cmPerFoot
	default:
		return value
	}
}

// MassToKg converts a mass measurement to kilograms. Unknown units pass the
// value through unchanged.
func MassToKg(value float64, unit string) float64 {
	switch unit {
	case "kg":
		return value
	case "lb":
		return value / lbPerKg
	case "g":
		return value / 1000
	default:
		return value
	}
}

// normalizeLinearUnit maps the many unit spellings found in catalog text to
// one of the four canonical linear unit tokens. Returns "" for tokens that
// are not linear units.
func normalizeLinearUnit(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return unitCm
	case "mm", "millimeter", "millimeters", "millimetre", "millimetres":
		return unitMm
	case "in", "inch", "inches", `"`:
		return unitInch
	case "ft", "feet", "foot", "'":
		return unitFoot
	default:
		return ""
	}
}

// isMetricUnit reports whether a normalized unit token is metric.
func isMetricUnit(unit string) bool {
	return unit == unitCm || unit == unitMm
}

package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matfinder/backend/internal/domain"
)

// ExtractionThresholds are the tuned constants of the extraction engine.
// The defaults are calibrated for mat-shaped products; a different catalog
// domain would retune them, so they are configuration rather than literals.
type ExtractionThresholds struct {
	// UnlabeledCmThreshold: bare numbers at or above this read as cm, below as inches.
	UnlabeledCmThreshold float64
	// LengthCmThreshold: lone measurements above this classify as length.
	LengthCmThreshold float64
	// WidthCmThreshold: lone measurements below this classify as width.
	WidthCmThreshold float64
	// BareThicknessMaxMm: a unitless thickness reading at or above this is
	// rejected — "180" is a length in cm, not a thickness in mm.
	BareThicknessMaxMm float64

	BaseConfidence      float64
	PairBaseConfidence  float64
	ConfidenceBonus     float64
	PairConfidenceBonus float64
}

// DefaultExtractionThresholds returns the production-tuned threshold set.
func DefaultExtractionThresholds() ExtractionThresholds {
	return ExtractionThresholds{
		UnlabeledCmThreshold: 100,
		LengthCmThreshold:    152, // 60in
		WidthCmThreshold:     102, // 40in
		BareThicknessMaxMm:   20,
		BaseConfidence:       0.55,
		PairBaseConfidence:   0.75,
		ConfidenceBonus:      0.15,
		PairConfidenceBonus:  0.10,
	}
}

// DimensionExtractor walks a product's named options, classifies each, and
// extracts structured dimension candidates with per-candidate confidence
// scores. It is stateless apart from its thresholds and safe for concurrent
// use.
type DimensionExtractor struct {
	thresholds ExtractionThresholds
}

// NewDimensionExtractor creates an extractor. Zero-valued thresholds fall
// back to the defaults.
func NewDimensionExtractor(thresholds ExtractionThresholds) *DimensionExtractor {
	defaults := DefaultExtractionThresholds()
	if thresholds.UnlabeledCmThreshold <= 0 {
		thresholds.UnlabeledCmThreshold = defaults.UnlabeledCmThreshold
	}
	if thresholds.LengthCmThreshold <= 0 {
		thresholds.LengthCmThreshold = defaults.LengthCmThreshold
	}
	if thresholds.WidthCmThreshold <= 0 {
		thresholds.WidthCmThreshold = defaults.WidthCmThreshold
	}
	if thresholds.BareThicknessMaxMm <= 0 {
		thresholds.BareThicknessMaxMm = defaults.BareThicknessMaxMm
	}
	if thresholds.BaseConfidence <= 0 {
		thresholds.BaseConfidence = defaults.BaseConfidence
	}
	if thresholds.PairBaseConfidence <= 0 {
		thresholds.PairBaseConfidence = defaults.PairBaseConfidence
	}
	if thresholds.ConfidenceBonus <= 0 {
		thresholds.ConfidenceBonus = defaults.ConfidenceBonus
	}
	if thresholds.PairConfidenceBonus <= 0 {
		thresholds.PairConfidenceBonus = defaults.PairConfidenceBonus
	}
	return &DimensionExtractor{thresholds: thresholds}
}

var (
	// colorOptionNameRegex matches brand-specific color option spellings
	// like "Mat Color", "Yoga Towel Colour".
	colorOptionNameRegex = regexp.MustCompile(`(?i)(mat|yoga|sock|towel).*colou?rs?`)

	// dimensionNameHints are option-name substrings that suggest the option
	// encodes a physical dimension.
	dimensionNameHints = []string{"size", "dimension", "length", "width", "thick", "diam", "round", "circle", "select"}

	// diameterNameHints mark option names whose values are diameters even
	// without per-value keywords.
	diameterNameHints = []string{"diam", "round", "circle"}
)

// IsColorOptionName reports whether an option name denotes the product's
// color enumeration. Colors are extracted only from such options, never
// inferred from variant values.
func IsColorOptionName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "color" || lower == "colour" || lower == "color/pattern" {
		return true
	}
	return colorOptionNameRegex.MatchString(lower)
}

// OptionNameSuggestsDimensions reports whether the option's own name hints
// at a dimension semantic, regardless of what its values look like.
func OptionNameSuggestsDimensions(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range dimensionNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func optionNameSuggestsDiameter(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range diameterNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// ExtractDimensionOptions processes every non-color option of a product.
// Each value runs through the parser chain diameter → thickness → size pair
// → single dimension; the first successful parser wins and unmatched values
// are recorded as unparsed residue.
func (e *DimensionExtractor) ExtractDimensionOptions(options []domain.Option) *domain.DimensionOptions {
	result := &domain.DimensionOptions{}
	seen := make(map[string]bool)

	for _, option := range options {
		if IsColorOptionName(option.Name) {
			continue
		}

		kind := ClassifyOptionValues(option.Values)
		if !OptionNameSuggestsDimensions(option.Name) && kind == KindColor {
			continue
		}

		assumeDiameter := optionNameSuggestsDiameter(option.Name)
		thicknessContext := strings.Contains(strings.ToLower(option.Name), "thick") || kind == KindThickness

		for _, value := range option.Values {
			result.Sanity.CandidateCount++
			if e.extractValue(result, seen, option.Name, value, kind, assumeDiameter, thicknessContext) {
				result.Sanity.ParsedCount++
			} else {
				result.Sanity.UnparsedCount++
				result.RawUnparsed = append(result.RawUnparsed, domain.UnparsedValue{
					SourceOptionName: option.Name,
					RawValue:         value,
				})
			}
		}
	}

	if result.Sanity.CandidateCount > 0 {
		result.Sanity.Coverage = float64(result.Sanity.ParsedCount) / float64(result.Sanity.CandidateCount)
		result.Sanity.AllUnparsed = result.Sanity.ParsedCount == 0
	}
	return result
}

// extractValue runs one option value through the parser chain. Returns true
// when some parser produced a candidate.
func (e *DimensionExtractor) extractValue(
	result *domain.DimensionOptions,
	seen map[string]bool,
	optionName, value string,
	kind OptionKind,
	assumeDiameter, thicknessContext bool,
) bool {
	hasUnit := linearMeasurementRegex.MatchString(value)

	// 1. Diameter
	if cm, _, ok := e.ParseDiameterString(value, assumeDiameter); ok {
		confidence := e.candidateConfidence(hasUnit, HasDiameterKeyword(value) || assumeDiameter, kind == KindDiameter)
		e.appendCandidate(&result.DiameterCm, seen, "diameter", optionName, value, cm, confidence)
		return true
	}

	// 2. Thickness. Pair values never read as thickness, and a unitless
	// reading at mat-length magnitude is residue, not a candidate.
	if !HasSizePair(value) {
		if parse, ok := ParseThicknessString(value, thicknessContext); ok {
			if !parse.ExplicitUnit && parse.Mm >= e.thresholds.BareThicknessMaxMm {
				return false
			}
			keyword := thicknessContext || strings.Contains(strings.ToLower(value), "thick")
			confidence := e.candidateConfidence(parse.ExplicitUnit, keyword, kind == KindThickness)
			e.appendCandidate(&result.ThicknessMm, seen, "thickness", optionName, value, parse.Mm, confidence)
			return true
		}
	}

	// 3. Size pair
	if pair := e.parseSizePair(value); pair != nil {
		confidence := e.pairConfidence(hasUnit, kind == KindDimensions)
		key := fmt.Sprintf("pair|%s|%s|%.4f|%.4f", optionName, value, pair.LengthCm, pair.WidthCm)
		if !seen[key] {
			seen[key] = true
			result.SizePairsCm = append(result.SizePairsCm, domain.SizePairCandidate{
				LengthCm:         pair.LengthCm,
				WidthCm:          pair.WidthCm,
				SourceOptionName: optionName,
				RawValue:         value,
				Confidence:       confidence,
			})
		}
		return true
	}

	// 4. Single dimension
	cm, _, ok := ParseSingleLinearToCm(value)
	if !ok {
		bare, bareOK := parseBareNumber(value)
		if !bareOK {
			return false
		}
		unit := e.InferUnlabeledLinearUnit(optionName+" "+value, bare)
		cm = LinearToCm(bare, unit)
	}

	context := optionName + " " + value
	keyword := lengthKeywordRegex.MatchString(context) || widthKeywordRegex.MatchString(context)
	single := e.ClassifySingleDimension(context, cm)
	if single == KindWidth {
		confidence := e.candidateConfidence(hasUnit, keyword, kind == KindWidth)
		e.appendCandidate(&result.WidthCm, seen, "width", optionName, value, cm, confidence)
	} else {
		confidence := e.candidateConfidence(hasUnit, keyword, kind == KindLength || kind == KindDimensions)
		e.appendCandidate(&result.LengthCm, seen, "length", optionName, value, cm, confidence)
	}
	return true
}

// appendCandidate adds a candidate to a dimension list, deduplicating by
// (option, raw value, value rounded to 4 decimals).
func (e *DimensionExtractor) appendCandidate(
	list *[]domain.DimensionCandidate,
	seen map[string]bool,
	kind, optionName, rawValue string,
	value, confidence float64,
) {
	key := fmt.Sprintf("%s|%s|%s|%.4f", kind, optionName, rawValue, value)
	if seen[key] {
		return
	}
	seen[key] = true
	*list = append(*list, domain.DimensionCandidate{
		Value:            value,
		SourceOptionName: optionName,
		RawValue:         rawValue,
		Confidence:       confidence,
	})
}

// candidateConfidence is the deliberately simple monotonic scoring heuristic:
// a fixed base plus equal bonuses for explicit units, keyword support, and
// agreement with the option-level majority classification, clamped to [0,1].
func (e *DimensionExtractor) candidateConfidence(hasExplicitUnit, keywordSupport, classificationAgrees bool) float64 {
	confidence := e.thresholds.BaseConfidence
	if hasExplicitUnit {
		confidence += e.thresholds.ConfidenceBonus
	}
	if keywordSupport {
		confidence += e.thresholds.ConfidenceBonus
	}
	if classificationAgrees {
		confidence += e.thresholds.ConfidenceBonus
	}
	return clamp01(confidence)
}

// pairConfidence scores size-pair candidates: the NxN shape itself is strong
// evidence, so pairs start higher and earn smaller bonuses.
func (e *DimensionExtractor) pairConfidence(hasExplicitUnit, classificationAgrees bool) float64 {
	confidence := e.thresholds.PairBaseConfidence
	if hasExplicitUnit {
		confidence += e.thresholds.PairConfidenceBonus
	}
	if classificationAgrees {
		confidence += e.thresholds.PairConfidenceBonus
	}
	return clamp01(confidence)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/matfinder/backend/internal/domain"
)

var (
	htmlTagRegex         = regexp.MustCompile(`<[^>]*>`)
	htmlBlockTagRegex    = regexp.MustCompile(`(?i)<(br|/p|/li|/ul|/div|/h[1-6])[^>]*>`)
	slugInvalidRegex     = regexp.MustCompile(`[^a-z0-9]+`)
	massMeasurementRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|kilograms?|lbs?|pounds?|grams?|g)\b`)
)

// htmlEntities decoded after tag stripping. &amp; goes last so "&amp;lt;"
// does not double-decode.
var htmlEntities = [][2]string{
	{"&nbsp;", " "},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&amp;", "&"},
}

// StripHTML removes markup from a catalog description, keeping block-tag
// boundaries as newlines so adjacent fragments do not fuse into false
// keyword matches.
func StripHTML(html string) string {
	text := htmlBlockTagRegex.ReplaceAllString(html, "\n")
	text = htmlTagRegex.ReplaceAllString(text, "")
	for _, entity := range htmlEntities {
		text = strings.ReplaceAll(text, entity[0], entity[1])
	}
	text = regexp.MustCompile(`[ \t]+`).ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Slugify converts free text to a URL-safe slug.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugInvalidRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FieldMapperConfig holds configuration for the field mapper.
type FieldMapperConfig struct {
	Thresholds ExtractionThresholds
	// EnrichmentMinConfidence gates enrichment text and core features;
	// records below it are ignored.
	EnrichmentMinConfidence float64
}

// FieldMapper is the top-level per-product transform: it combines
// option-derived dimensions with free-text fallback extraction and produces
// the canonical normalized record plus derived query fields. It is a pure
// function of its inputs and safe for concurrent use.
type FieldMapper struct {
	extractor               *DimensionExtractor
	enrichmentMinConfidence float64
}

// NewFieldMapper creates a field mapper with the given configuration.
func NewFieldMapper(config FieldMapperConfig) *FieldMapper {
	minConfidence := config.EnrichmentMinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.5
	}
	return &FieldMapper{
		extractor:               NewDimensionExtractor(config.Thresholds),
		enrichmentMinConfidence: minConfidence,
	}
}

// Extractor exposes the underlying dimension extractor, mainly for tests.
func (m *FieldMapper) Extractor() *DimensionExtractor {
	return m.extractor
}

// MapProduct normalizes one raw catalog product. The enrichment record is
// optional; passing nil is the common case.
func (m *FieldMapper) MapProduct(
	product domain.RawCatalogProduct,
	brand domain.BrandSource,
	enrichment *domain.Enrichment,
) domain.NormalizedProduct {
	description := StripHTML(product.BodyHTML)
	searchText := m.buildSearchText(product, description, enrichment)

	dims := m.extractor.ExtractDimensionOptions(product.Options)

	normalized := domain.NormalizedProduct{
		Name:        product.Title,
		Slug:        brand.Slug + "-" + Slugify(product.Handle),
		BrandSlug:   brand.Slug,
		BrandName:   brand.Name,
		Handle:      product.Handle,
		Vendor:      product.Vendor,
		ProductType: product.ProductType,
		Description: description,
	}

	if dims.Sanity.CandidateCount > 0 {
		normalized.DimensionOptions = dims
	}

	normalized.Thickness = m.resolveThickness(dims, searchText)
	normalized.Length, normalized.Width = m.resolveLengthWidth(dims, searchText)
	normalized.Diameter = m.resolveDiameter(dims, searchText)
	normalized.Weight = m.resolveWeight(product.Variants, searchText)

	normalized.Material = ExtractMaterial(searchText, product.Tags)
	normalized.Features = m.mergeFeatures(ExtractFeatures(searchText), enrichment)
	normalized.AvailableColors = ExtractColors(product.Options)

	m.summarizeVariants(&normalized, product.Variants)
	m.deriveQueryFields(&normalized, dims)

	return normalized
}

// buildSearchText concatenates title, stripped description and tags into one
// search surface, plus any enrichment copy that clears the confidence gate.
func (m *FieldMapper) buildSearchText(product domain.RawCatalogProduct, description string, enrichment *domain.Enrichment) string {
	parts := []string{product.Title, description}
	if len(product.Tags) > 0 {
		parts = append(parts, strings.Join(product.Tags, " "))
	}
	if enrichment != nil {
		if enrichment.AppendText != nil && enrichment.AppendText.Confidence >= m.enrichmentMinConfidence {
			parts = append(parts, enrichment.AppendText.Text)
		}
		for _, section := range enrichment.Sections {
			parts = append(parts, section.Heading, section.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// resolveThickness prefers option candidates; free text is scanned only when
// the options yielded nothing. Text readings require an explicit unit token
// — a bare number in prose is noise.
func (m *FieldMapper) resolveThickness(dims *domain.DimensionOptions, searchText string) *domain.MeasurementValue {
	if len(dims.ThicknessMm) > 0 {
		first := dims.ThicknessMm[0]
		return &domain.MeasurementValue{
			Value:        first.Value,
			Unit:         domain.UnitMm,
			Source:       domain.SourceOptions,
			OriginalText: first.RawValue,
		}
	}
	if parse, ok := ParseThicknessString(searchText, false); ok && parse.ExplicitUnit {
		return &domain.MeasurementValue{
			Value:        parse.Mm,
			Unit:         domain.UnitMm,
			Source:       domain.SourceDescription,
			OriginalText: strings.TrimSpace(parse.Raw),
		}
	}
	return nil
}

// resolveLengthWidth prefers option candidates (including size pairs); when
// the options yielded neither, a single pair or lone measurement from the
// search text fills in.
func (m *FieldMapper) resolveLengthWidth(dims *domain.DimensionOptions, searchText string) (*domain.MeasurementValue, *domain.MeasurementValue) {
	var length, width *domain.MeasurementValue

	if len(dims.LengthCm) > 0 {
		first := dims.LengthCm[0]
		length = optionMeasurement(first, domain.UnitCm)
	}
	if len(dims.WidthCm) > 0 {
		first := dims.WidthCm[0]
		width = optionMeasurement(first, domain.UnitCm)
	}
	if length == nil && len(dims.SizePairsCm) > 0 {
		pair := dims.SizePairsCm[0]
		length = &domain.MeasurementValue{Value: pair.LengthCm, Unit: domain.UnitCm, Source: domain.SourceOptions, OriginalText: pair.RawValue}
		if width == nil {
			width = &domain.MeasurementValue{Value: pair.WidthCm, Unit: domain.UnitCm, Source: domain.SourceOptions, OriginalText: pair.RawValue}
		}
	}

	if length != nil && width != nil {
		return length, width
	}

	// Text fallback
	pair, single := m.extractor.ParseDimensionString(searchText)
	switch {
	case pair != nil:
		if length == nil {
			length = &domain.MeasurementValue{Value: pair.LengthCm, Unit: domain.UnitCm, Source: domain.SourceDescription, OriginalText: pair.Raw}
		}
		if width == nil {
			width = &domain.MeasurementValue{Value: pair.WidthCm, Unit: domain.UnitCm, Source: domain.SourceDescription, OriginalText: pair.Raw}
		}
	case single != nil && length == nil && width == nil:
		// Millimeter tokens in prose are thickness, not length; re-scan
		// excluding them before trusting the lone measurement.
		if cm, raw, ok := parseSingleBodyDimension(searchText); ok {
			value := &domain.MeasurementValue{Value: cm, Unit: domain.UnitCm, Source: domain.SourceDescription, OriginalText: raw}
			if m.extractor.ClassifySingleDimension(searchText, cm) == KindWidth {
				width = value
			} else {
				length = value
			}
		}
	}
	return length, width
}

// parseSingleBodyDimension selects the best length-scale measurement from
// free text: first cm candidate, else first inch/foot candidate. Millimeter
// tokens are skipped entirely.
func parseSingleBodyDimension(text string) (float64, string, bool) {
	measurements := FindLinearMeasurements(text)
	for _, m := range measurements {
		if m.Unit == unitCm {
			return LinearToCm(m.Value, m.Unit), m.Raw, true
		}
	}
	for _, m := range measurements {
		if m.Unit != unitMm {
			return LinearToCm(m.Value, m.Unit), m.Raw, true
		}
	}
	return 0, "", false
}

func (m *FieldMapper) resolveDiameter(dims *domain.DimensionOptions, searchText string) *domain.MeasurementValue {
	if len(dims.DiameterCm) > 0 {
		return optionMeasurement(dims.DiameterCm[0], domain.UnitCm)
	}
	if cm, raw, ok := m.extractor.ParseDiameterString(searchText, false); ok {
		return &domain.MeasurementValue{Value: cm, Unit: domain.UnitCm, Source: domain.SourceDescription, OriginalText: raw}
	}
	return nil
}

// resolveWeight reads an explicit weight statement from the text, falling
// back to the heaviest variant mass.
func (m *FieldMapper) resolveWeight(variants []domain.Variant, searchText string) *domain.MeasurementValue {
	if match := massMeasurementRegex.FindStringSubmatch(searchText); match != nil {
		value, unit := parseMassToken(match[1], match[2])
		if value > 0 {
			return &domain.MeasurementValue{
				Value:        MassToKg(value, unit),
				Unit:         domain.UnitKg,
				Source:       domain.SourceDescription,
				OriginalText: strings.TrimSpace(match[0]),
			}
		}
	}

	var maxGrams float64
	for _, variant := range variants {
		if variant.Grams > maxGrams {
			maxGrams = variant.Grams
		}
	}
	if maxGrams > 0 {
		return &domain.MeasurementValue{
			Value:        maxGrams / 1000,
			Unit:         domain.UnitKg,
			Source:       domain.SourceVariants,
			OriginalText: fmt.Sprintf("%.0fg", maxGrams),
		}
	}
	return nil
}

// mergeFeatures folds enrichment core features into the extracted tags,
// preserving order and dropping duplicates case-insensitively.
func (m *FieldMapper) mergeFeatures(features []string, enrichment *domain.Enrichment) []string {
	if enrichment == nil || enrichment.CoreFeatures == nil ||
		enrichment.CoreFeatures.Confidence < m.enrichmentMinConfidence {
		return features
	}

	seen := make(map[string]bool, len(features))
	for _, feature := range features {
		seen[strings.ToLower(feature)] = true
	}
	merged := features
	for _, item := range enrichment.CoreFeatures.Items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" || seen[strings.ToLower(trimmed)] {
			continue
		}
		seen[strings.ToLower(trimmed)] = true
		merged = append(merged, trimmed)
	}
	return merged
}

// summarizeVariants computes price range, mass range, grams sanity and
// availability across the variant set.
func (m *FieldMapper) summarizeVariants(normalized *domain.NormalizedProduct, variants []domain.Variant) {
	normalized.VariantCount = len(variants)

	missing := 0
	for _, variant := range variants {
		if variant.Price > 0 {
			if normalized.PriceMin == 0 || variant.Price < normalized.PriceMin {
				normalized.PriceMin = variant.Price
			}
			if variant.Price > normalized.PriceMax {
				normalized.PriceMax = variant.Price
			}
		}
		if variant.Grams > 0 {
			if normalized.GramsMin == 0 || variant.Grams < normalized.GramsMin {
				normalized.GramsMin = variant.Grams
			}
			if variant.Grams > normalized.GramsMax {
				normalized.GramsMax = variant.Grams
			}
		} else {
			missing++
		}
		if variant.Available {
			normalized.Available = true
		}
	}

	normalized.GramsSanity = domain.GramsSanity{MissingCount: missing}
	if len(variants) > 0 {
		normalized.GramsSanity.MissingFraction = float64(missing) / float64(len(variants))
		normalized.GramsSanity.AllMissing = missing == len(variants)
	}
}

// deriveQueryFields computes min/max ranges and ×10 fixed-point value arrays
// from the option candidates, falling back to the single extracted scalar
// when the options produced no candidates for that dimension.
func (m *FieldMapper) deriveQueryFields(normalized *domain.NormalizedProduct, dims *domain.DimensionOptions) {
	thickness := candidateValues(dims.ThicknessMm)
	if len(thickness) == 0 && normalized.Thickness != nil {
		thickness = []float64{normalized.Thickness.Value}
	}
	normalized.ThicknessMmMin, normalized.ThicknessMmMax = minMax(thickness)
	normalized.ThicknessMmx10Vals = fixedPointX10(thickness)

	lengths := candidateValues(dims.LengthCm)
	widths := candidateValues(dims.WidthCm)
	for _, pair := range dims.SizePairsCm {
		lengths = append(lengths, pair.LengthCm)
		widths = append(widths, pair.WidthCm)
	}
	if len(lengths) == 0 && normalized.Length != nil {
		lengths = []float64{normalized.Length.Value}
	}
	if len(widths) == 0 && normalized.Width != nil {
		widths = []float64{normalized.Width.Value}
	}
	normalized.LengthCmMin, normalized.LengthCmMax = minMax(lengths)
	normalized.LengthCmx10Vals = fixedPointX10(lengths)
	normalized.WidthCmMin, normalized.WidthCmMax = minMax(widths)
	normalized.WidthCmx10Vals = fixedPointX10(widths)

	diameters := candidateValues(dims.DiameterCm)
	if len(diameters) == 0 && normalized.Diameter != nil {
		diameters = []float64{normalized.Diameter.Value}
	}
	normalized.DiameterCmMin, normalized.DiameterCmMax = minMax(diameters)
	normalized.DiameterCmx10Vals = fixedPointX10(diameters)
}

func optionMeasurement(candidate domain.DimensionCandidate, unit string) *domain.MeasurementValue {
	return &domain.MeasurementValue{
		Value:        candidate.Value,
		Unit:         unit,
		Source:       domain.SourceOptions,
		OriginalText: candidate.RawValue,
	}
}

func candidateValues(candidates []domain.DimensionCandidate) []float64 {
	if len(candidates) == 0 {
		return nil
	}
	values := make([]float64, len(candidates))
	for i, candidate := range candidates {
		values[i] = candidate.Value
	}
	return values
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// fixedPointX10 encodes values as unique sorted ×10 integers for exact-match
// indexing (4.7mm → 47).
func fixedPointX10(values []float64) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(values))
	encoded := make([]int, 0, len(values))
	for _, v := range values {
		x10 := int(math.Round(v * 10))
		if seen[x10] {
			continue
		}
		seen[x10] = true
		encoded = append(encoded, x10)
	}
	sort.Ints(encoded)
	return encoded
}

// parseMassToken normalizes a mass unit spelling.
func parseMassToken(number, unit string) (float64, string) {
	var value float64
	fmt.Sscanf(number, "%f", &value)
	switch strings.ToLower(unit) {
	case "kg", "kilogram", "kilograms":
		return value, "kg"
	case "lb", "lbs", "pound", "pounds":
		return value, "lb"
	case "g", "gram", "grams":
		return value, "g"
	default:
		return value, ""
	}
}

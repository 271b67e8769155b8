package domain

// Canonical units. Every physical quantity is normalized to exactly one unit
// before storage: millimeters for thickness, centimeters for length, width
// and diameter, kilograms for weight.
const (
	UnitMm = "mm"
	UnitCm = "cm"
	UnitKg = "kg"
)

// Measurement sources, ordered by extraction priority.
const (
	SourceOptions     = "options"
	SourceDescription = "description"
	SourceVariants    = "variants"
)

// MeasurementValue is one extracted physical quantity in its canonical unit.
// OriginalText preserves the pre-conversion source span for auditability.
type MeasurementValue struct {
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	Source       string  `json:"source"`
	OriginalText string  `json:"originalText"`
}

// DimensionCandidate is a single parsed numeric interpretation of one option
// value. Multiple candidates may exist per product per dimension kind, since
// a product may offer several thickness or size choices.
type DimensionCandidate struct {
	Value            float64 `json:"value"`
	SourceOptionName string  `json:"sourceOptionName"`
	RawValue         string  `json:"rawValue"`
	Confidence       float64 `json:"confidence"`
}

// SizePairCandidate is a parsed length×width pair from one option value.
type SizePairCandidate struct {
	LengthCm         float64 `json:"lengthCm"`
	WidthCm          float64 `json:"widthCm"`
	SourceOptionName string  `json:"sourceOptionName"`
	RawValue         string  `json:"rawValue"`
	Confidence       float64 `json:"confidence"`
}

// UnparsedValue records an option value that matched no parser.
type UnparsedValue struct {
	SourceOptionName string `json:"sourceOptionName"`
	RawValue         string `json:"rawValue"`
}

// DimensionSanity summarizes how much of the dimension-like option surface
// was successfully parsed. Coverage is 0 when CandidateCount is 0;
// AllUnparsed is true iff CandidateCount > 0 and ParsedCount == 0.
type DimensionSanity struct {
	CandidateCount int     `json:"candidateCount"`
	ParsedCount    int     `json:"parsedCount"`
	UnparsedCount  int     `json:"unparsedCount"`
	Coverage       float64 `json:"coverage"`
	AllUnparsed    bool    `json:"allUnparsed"`
}

// DimensionOptions aggregates every dimension candidate extracted from a
// product's named options, one ordered list per dimension kind.
type DimensionOptions struct {
	ThicknessMm []DimensionCandidate `json:"thicknessMm,omitempty"`
	LengthCm    []DimensionCandidate `json:"lengthCm,omitempty"`
	WidthCm     []DimensionCandidate `json:"widthCm,omitempty"`
	DiameterCm  []DimensionCandidate `json:"diameterCm,omitempty"`
	SizePairsCm []SizePairCandidate  `json:"sizePairsCm,omitempty"`
	Sanity      DimensionSanity      `json:"sanity"`
	RawUnparsed []UnparsedValue      `json:"rawUnparsed,omitempty"`
}

// GramsSanity flags variants with missing or non-positive mass data.
type GramsSanity struct {
	MissingCount    int     `json:"missingCount"`
	MissingFraction float64 `json:"missingFraction"`
	AllMissing      bool    `json:"allMissing"`
}

// NormalizedProduct is the canonical output entity, derived purely from one
// RawCatalogProduct (and an optional enrichment record). It owns no external
// resources and is safe to recompute idempotently given the same input.
type NormalizedProduct struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	BrandSlug   string `json:"brandSlug"`
	BrandName   string `json:"brandName"`
	Handle      string `json:"handle"`
	Vendor      string `json:"vendor,omitempty"`
	ProductType string `json:"productType,omitempty"`
	Description string `json:"description,omitempty"`

	Thickness *MeasurementValue `json:"thickness,omitempty"`
	Length    *MeasurementValue `json:"length,omitempty"`
	Width     *MeasurementValue `json:"width,omitempty"`
	Diameter  *MeasurementValue `json:"diameter,omitempty"`
	Weight    *MeasurementValue `json:"weight,omitempty"`

	DimensionOptions *DimensionOptions `json:"dimensionOptions,omitempty"`

	// Derived query fields: min/max ranges plus ×10 fixed-point encodings
	// for exact-match filtering.
	ThicknessMmMin     float64 `json:"thicknessMmMin,omitempty"`
	ThicknessMmMax     float64 `json:"thicknessMmMax,omitempty"`
	LengthCmMin        float64 `json:"lengthCmMin,omitempty"`
	LengthCmMax        float64 `json:"lengthCmMax,omitempty"`
	WidthCmMin         float64 `json:"widthCmMin,omitempty"`
	WidthCmMax         float64 `json:"widthCmMax,omitempty"`
	DiameterCmMin      float64 `json:"diameterCmMin,omitempty"`
	DiameterCmMax      float64 `json:"diameterCmMax,omitempty"`
	ThicknessMmx10Vals []int   `json:"thicknessMmx10Values,omitempty"`
	LengthCmx10Vals    []int   `json:"lengthCmx10Values,omitempty"`
	WidthCmx10Vals     []int   `json:"widthCmx10Values,omitempty"`
	DiameterCmx10Vals  []int   `json:"diameterCmx10Values,omitempty"`

	Material        string   `json:"material,omitempty"`
	Features        []string `json:"features,omitempty"`
	AvailableColors []string `json:"availableColors,omitempty"`

	PriceMin     float64     `json:"priceMin"`
	PriceMax     float64     `json:"priceMax"`
	GramsMin     float64     `json:"gramsMin,omitempty"`
	GramsMax     float64     `json:"gramsMax,omitempty"`
	GramsSanity  GramsSanity `json:"gramsSanity"`
	VariantCount int         `json:"variantCount"`
	Available    bool        `json:"available"`
}

// BrandSummary is one row of the brands index produced by aggregation.
type BrandSummary struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"productCount"`
}

// CatalogStats summarizes an aggregated catalog for the stats export.
type CatalogStats struct {
	ProductCount       int            `json:"productCount"`
	BrandCount         int            `json:"brandCount"`
	PriceMin           float64        `json:"priceMin"`
	PriceMax           float64        `json:"priceMax"`
	PriceAvg           float64        `json:"priceAvg"`
	PriceMedian        float64        `json:"priceMedian"`
	MaterialHistogram  map[string]int `json:"materialHistogram"`
	FeatureHistogram   map[string]int `json:"featureHistogram"`
	WithDimensions     int            `json:"withDimensions"`
	WithoutDimensions  int            `json:"withoutDimensions"`
}

// InvalidProduct records a product excluded from the normalized set, with
// the reasons, for the operator-facing error summary.
type InvalidProduct struct {
	BrandSlug string   `json:"brandSlug"`
	Handle    string   `json:"handle"`
	Title     string   `json:"title"`
	Reasons   []string `json:"reasons"`
}

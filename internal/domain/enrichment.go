package domain

// Enrichment is an optional out-of-band record, keyed by product handle,
// that augments extraction. The mapper must accept its absence gracefully:
// enrichment is never required for valid output.
type Enrichment struct {
	CoreFeatures *CoreFeatures       `json:"coreFeatures,omitempty"`
	AppendText   *AppendText         `json:"appendText,omitempty"`
	Sections     []EnrichmentSection `json:"sections,omitempty"`
}

// CoreFeatures is a curated feature list with a supplier confidence score.
type CoreFeatures struct {
	Items      []string `json:"items"`
	Confidence float64  `json:"confidence"`
}

// AppendText is additional free text to include in keyword extraction.
type AppendText struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Headings   []string `json:"headings,omitempty"`
}

// EnrichmentSection is one heading/body pair of supplementary copy.
type EnrichmentSection struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

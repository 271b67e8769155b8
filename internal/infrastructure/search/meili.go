package search

import (
	"context"
	"fmt"
	"log"

	meilisearch "github.com/meilisearch/meilisearch-go"

	"github.com/matfinder/backend/internal/domain"
)

// MeiliIndexer pushes normalized products into a Meilisearch index so the
// storefront search can filter on the extracted physical attributes.
type MeiliIndexer struct {
	client    meilisearch.ServiceManager
	indexName string
	batchSize int
}

// MeiliConfig tunes the indexer.
type MeiliConfig struct {
	URL       string
	APIKey    string
	IndexName string
	BatchSize int
}

// NewMeiliIndexer creates the client and ensures the index exists with the
// catalog's searchable and filterable attributes.
func NewMeiliIndexer(config MeiliConfig) *MeiliIndexer {
	if config.URL == "" {
		config.URL = "http://localhost:7700"
	}
	if config.IndexName == "" {
		config.IndexName = "products"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1000
	}

	client := meilisearch.New(config.URL, meilisearch.WithAPIKey(config.APIKey))
	_, _ = client.CreateIndex(&meilisearch.IndexConfig{Uid: config.IndexName, PrimaryKey: "id"})

	index := client.Index(config.IndexName)
	settings := meilisearch.Settings{
		SearchableAttributes: []string{"name", "brandName", "material", "features", "availableColors"},
		FilterableAttributes: []string{"brandSlug", "material", "features", "thicknessMmx10", "lengthCmx10", "priceMin", "available"},
		SortableAttributes:   []string{"priceMin", "name"},
	}
	// Settings update is best effort; a cold Meilisearch applies them on
	// first successful run.
	_, _ = index.UpdateSettings(&settings)

	return &MeiliIndexer{
		client:    client,
		indexName: config.IndexName,
		batchSize: config.BatchSize,
	}
}

// IndexProducts replaces the indexed documents with the given catalog.
func (m *MeiliIndexer) IndexProducts(ctx context.Context, products []domain.NormalizedProduct) error {
	index := m.client.Index(m.indexName)

	docs := make([]map[string]interface{}, 0, len(products))
	for _, product := range products {
		docs = append(docs, productDocument(product))
	}

	for start := 0; start < len(docs); start += m.batchSize {
		end := start + m.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := index.AddDocuments(docs[start:end], nil); err != nil {
			return fmt.Errorf("indexing batch %d-%d: %w", start, end, err)
		}
	}

	log.Printf("[SEARCH] indexed %d products into %q", len(docs), m.indexName)
	return nil
}

// productDocument flattens a normalized product into a search document. The
// ×10 fixed-point arrays go in as-is: Meilisearch filters exact-match on
// integers, which is the whole point of the encoding.
func productDocument(product domain.NormalizedProduct) map[string]interface{} {
	doc := map[string]interface{}{
		"id":              product.Slug,
		"name":            product.Name,
		"brandSlug":       product.BrandSlug,
		"brandName":       product.BrandName,
		"material":        product.Material,
		"features":        product.Features,
		"availableColors": product.AvailableColors,
		"priceMin":        product.PriceMin,
		"priceMax":        product.PriceMax,
		"available":       product.Available,
	}
	if len(product.ThicknessMmx10Vals) > 0 {
		doc["thicknessMmx10"] = product.ThicknessMmx10Vals
	}
	if len(product.LengthCmx10Vals) > 0 {
		doc["lengthCmx10"] = product.LengthCmx10Vals
	}
	if len(product.WidthCmx10Vals) > 0 {
		doc["widthCmx10"] = product.WidthCmx10Vals
	}
	if len(product.DiameterCmx10Vals) > 0 {
		doc["diameterCmx10"] = product.DiameterCmx10Vals
	}
	return doc
}

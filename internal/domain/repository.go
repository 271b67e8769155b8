package domain

import "context"

// Scraper fetches the full raw catalog of one storefront. Implementations
// are the platform adapters (Shopify, BigCommerce, Lululemon).
type Scraper interface {
	FetchProducts(ctx context.Context, source BrandSource) ([]RawCatalogProduct, error)
}

// HashRegistry records the content hash of each brand's last scrape so the
// pipeline can skip unchanged catalogs. Get returns ErrRegistryMiss when the
// key has never been recorded.
type HashRegistry interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, hash string) error
}

// ProductFilter narrows catalog listings. Zero values mean "no constraint".
type ProductFilter struct {
	BrandSlug      string
	Material       string
	MinThicknessMm float64
	MaxLengthCm    float64
	Limit          int
}

// CatalogStore persists and serves the aggregated normalized catalog.
type CatalogStore interface {
	SaveAll(ctx context.Context, products []NormalizedProduct) error
	List(ctx context.Context, filter ProductFilter) ([]NormalizedProduct, error)
	GetBySlug(ctx context.Context, slug string) (*NormalizedProduct, error)
	Brands(ctx context.Context) ([]BrandSummary, error)
}

// SearchIndex pushes normalized products into a secondary search engine.
type SearchIndex interface {
	IndexProducts(ctx context.Context, products []NormalizedProduct) error
}

// Exporter writes the aggregation artifacts: the combined product JSON, the
// brands index, the stats document, and the flattened CSV.
type Exporter interface {
	ExportCatalog(products []NormalizedProduct, brands []BrandSummary, stats CatalogStats) error
}

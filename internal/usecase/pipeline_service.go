package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/matfinder/backend/internal/domain"
)

// PipelineConfig holds configuration for the pipeline service.
type PipelineConfig struct {
	Mapper             FieldMapperConfig
	EnableDebugLogging bool
	// SkipUnchanged omits normalization for brands whose raw payload hash
	// matches the registry's last recorded one.
	SkipUnchanged bool
}

// BrandRunReport summarizes one brand's pass through the pipeline.
type BrandRunReport struct {
	Brand      string `json:"brand"`
	Fetched    int    `json:"fetched"`
	Normalized int    `json:"normalized"`
	Invalid    int    `json:"invalid"`
	Changed    bool   `json:"changed"`
	FetchError string `json:"fetchError,omitempty"`
}

// PipelineReport is the operator-facing summary of a full run. All error
// information here is advisory: the pipeline is best-effort extraction with
// auditable confidence, not hard correctness guarantees.
type PipelineReport struct {
	Brands          []BrandRunReport        `json:"brands"`
	ProductCount    int                     `json:"productCount"`
	InvalidProducts []domain.InvalidProduct `json:"invalidProducts,omitempty"`
	Stats           domain.CatalogStats     `json:"stats"`
}

// PipelineService drives the fetch → normalize → aggregate → export flow.
// The extraction core it wraps is pure; all I/O lives behind the injected
// interfaces, so the service runs in tests with no network or file system.
type PipelineService struct {
	scrapers      map[string]domain.Scraper
	registry      domain.HashRegistry
	store         domain.CatalogStore
	exporter      domain.Exporter
	index         domain.SearchIndex
	mapper        *FieldMapper
	debug         bool
	skipUnchanged bool
}

// NewPipelineService wires the pipeline. exporter and index may be nil, in
// which case those stages are skipped.
func NewPipelineService(
	scrapers map[string]domain.Scraper,
	registry domain.HashRegistry,
	store domain.CatalogStore,
	exporter domain.Exporter,
	index domain.SearchIndex,
	config PipelineConfig,
) *PipelineService {
	return &PipelineService{
		scrapers:      scrapers,
		registry:      registry,
		store:         store,
		exporter:      exporter,
		index:         index,
		mapper:        NewFieldMapper(config.Mapper),
		debug:         config.EnableDebugLogging,
		skipUnchanged: config.SkipUnchanged,
	}
}

// Run executes one full pipeline pass over the configured brand sources.
// One bad brand or product never aborts the batch: fetch failures and
// invalid products are recorded in the report and skipped.
func (s *PipelineService) Run(
	ctx context.Context,
	sources []domain.BrandSource,
	enrichments map[string]domain.Enrichment,
) (*PipelineReport, error) {
	report := &PipelineReport{}
	var brandCatalogs [][]domain.NormalizedProduct

	for _, source := range sources {
		brandReport := BrandRunReport{Brand: source.Slug}

		scraper, ok := s.scrapers[source.Platform]
		if !ok {
			brandReport.FetchError = fmt.Sprintf("no scraper for platform %q", source.Platform)
			report.Brands = append(report.Brands, brandReport)
			log.Printf("[PIPELINE] %s: %s", source.Slug, brandReport.FetchError)
			continue
		}

		products, err := scraper.FetchProducts(ctx, source)
		if err != nil {
			brandReport.FetchError = err.Error()
			report.Brands = append(report.Brands, brandReport)
			log.Printf("[PIPELINE] %s: fetch failed: %v", source.Slug, err)
			continue
		}
		brandReport.Fetched = len(products)

		brandReport.Changed = s.recordChange(ctx, source.Slug, products)
		if s.skipUnchanged && !brandReport.Changed {
			report.Brands = append(report.Brands, brandReport)
			log.Printf("[PIPELINE] %s: unchanged, skipping", source.Slug)
			continue
		}

		normalized := s.normalizeBrand(source, products, enrichments, report)
		brandReport.Normalized = len(normalized)
		brandReport.Invalid = brandReport.Fetched - brandReport.Normalized
		brandCatalogs = append(brandCatalogs, normalized)
		report.Brands = append(report.Brands, brandReport)

		log.Printf("[PIPELINE] %s: fetched=%d normalized=%d changed=%v",
			source.Slug, brandReport.Fetched, brandReport.Normalized, brandReport.Changed)
	}

	merged := AggregateCatalogs(brandCatalogs)
	report.ProductCount = len(merged)
	report.Stats = ComputeCatalogStats(merged)

	if s.store != nil {
		if err := s.store.SaveAll(ctx, merged); err != nil {
			return report, fmt.Errorf("saving catalog: %w", err)
		}
	}
	if s.exporter != nil {
		brands := BuildBrandIndex(merged)
		if err := s.exporter.ExportCatalog(merged, brands, report.Stats); err != nil {
			return report, fmt.Errorf("exporting catalog: %w", err)
		}
	}
	if s.index != nil {
		if err := s.index.IndexProducts(ctx, merged); err != nil {
			// Search indexing is a secondary surface; the run still counts.
			log.Printf("[PIPELINE] search indexing failed: %v", err)
		}
	}

	return report, nil
}

// normalizeBrand maps every raw product, recovering from per-product panics
// so one malformed product never aborts the batch.
func (s *PipelineService) normalizeBrand(
	source domain.BrandSource,
	products []domain.RawCatalogProduct,
	enrichments map[string]domain.Enrichment,
	report *PipelineReport,
) []domain.NormalizedProduct {
	normalized := make([]domain.NormalizedProduct, 0, len(products))

	for _, product := range products {
		var enrichment *domain.Enrichment
		if enrichments != nil {
			if e, ok := enrichments[product.Handle]; ok {
				enrichment = &e
			}
		}

		mapped, err := s.mapSafely(product, source, enrichment)
		if err != nil {
			report.InvalidProducts = append(report.InvalidProducts, domain.InvalidProduct{
				BrandSlug: source.Slug,
				Handle:    product.Handle,
				Title:     product.Title,
				Reasons:   []string{err.Error()},
			})
			continue
		}

		if result := ValidateProduct(*mapped); !result.Valid {
			report.InvalidProducts = append(report.InvalidProducts, domain.InvalidProduct{
				BrandSlug: source.Slug,
				Handle:    product.Handle,
				Title:     product.Title,
				Reasons:   result.Errors,
			})
			continue
		}

		normalized = append(normalized, *mapped)
	}
	return normalized
}

// mapSafely converts one product, turning a mapper panic into an error.
func (s *PipelineService) mapSafely(
	product domain.RawCatalogProduct,
	source domain.BrandSource,
	enrichment *domain.Enrichment,
) (mapped *domain.NormalizedProduct, err error) {
	defer func() {
		if r := recover(); r != nil {
			mapped = nil
			err = fmt.Errorf("mapping panicked: %v", r)
		}
	}()

	result := s.mapper.MapProduct(product, source, enrichment)
	return &result, nil
}

// recordChange hashes the raw payload and compares it with the registry's
// last recorded hash for the brand. Returns true when the catalog changed
// (or was never seen); always records the new hash.
func (s *PipelineService) recordChange(ctx context.Context, brandSlug string, products []domain.RawCatalogProduct) bool {
	if s.registry == nil {
		return true
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return true
	}
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	previous, err := s.registry.Get(ctx, brandSlug)
	changed := true
	if err == nil {
		changed = previous != hash
	} else if !errors.Is(err, domain.ErrRegistryMiss) {
		log.Printf("[PIPELINE] registry read failed for %s: %v", brandSlug, err)
	}

	if err := s.registry.Set(ctx, brandSlug, hash); err != nil {
		log.Printf("[PIPELINE] registry write failed for %s: %v", brandSlug, err)
	}
	return changed
}

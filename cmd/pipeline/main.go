package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/matfinder/backend/config"
	"github.com/matfinder/backend/internal/domain"
	"github.com/matfinder/backend/internal/infrastructure/export"
	"github.com/matfinder/backend/internal/infrastructure/registry"
	"github.com/matfinder/backend/internal/infrastructure/scrape"
	"github.com/matfinder/backend/internal/infrastructure/search"
	"github.com/matfinder/backend/internal/infrastructure/store"
	"github.com/matfinder/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MatFinder pipeline")
	log.Printf("Brands: %d, Store: %s, Search: %v, Output: %s",
		len(cfg.Brands), cfg.Store.Type, cfg.Search.Enabled, cfg.Export.OutputDir)

	if len(cfg.Brands) == 0 {
		log.Fatal("No brands configured; nothing to do")
	}

	scrapers := buildScrapers(cfg)

	var hashes domain.HashRegistry
	var catalog domain.CatalogStore
	if cfg.Store.Type == "postgres" {
		pgRegistry, err := registry.NewPostgresRegistry(cfg.Store.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to open hash registry: %v", err)
		}
		defer pgRegistry.Close()
		hashes = pgRegistry

		pgStore, err := store.NewPostgresStore(cfg.Store.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to open catalog store: %v", err)
		}
		defer pgStore.Close()
		catalog = pgStore
	} else {
		hashes = registry.NewMemoryRegistry()
		catalog = store.NewMemoryStore()
	}

	var index domain.SearchIndex
	if cfg.Search.Enabled {
		index = search.NewMeiliIndexer(search.MeiliConfig{
			URL:       cfg.Search.URL,
			APIKey:    cfg.Search.APIKey,
			IndexName: cfg.Search.IndexName,
		})
	}

	pipeline := usecase.NewPipelineService(
		scrapers,
		hashes,
		catalog,
		export.NewFileExporter(cfg.Export.OutputDir),
		index,
		usecase.PipelineConfig{
			Mapper: usecase.FieldMapperConfig{
				Thresholds:              extractionThresholds(cfg.Extraction),
				EnrichmentMinConfidence: cfg.Extraction.EnrichmentMinConfidence,
			},
			EnableDebugLogging: cfg.Pipeline.Debug,
			SkipUnchanged:      cfg.Pipeline.SkipUnchanged,
		},
	)

	sources := make([]domain.BrandSource, 0, len(cfg.Brands))
	for _, brand := range cfg.Brands {
		sources = append(sources, domain.BrandSource{
			Name:     brand.Name,
			Slug:     brand.Slug,
			Platform: brand.Platform,
			BaseURL:  brand.BaseURL,
		})
	}

	enrichments, err := loadEnrichments(cfg.Pipeline.EnrichmentsFile)
	if err != nil {
		log.Fatalf("Failed to load enrichments: %v", err)
	}

	report, err := pipeline.Run(context.Background(), sources, enrichments)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	summary, _ := json.MarshalIndent(report, "", "  ")
	log.Printf("Pipeline complete:\n%s", summary)

	if report.ProductCount == 0 {
		log.Printf("WARNING: run produced an empty catalog")
		os.Exit(1)
	}
}

// buildScrapers wires one adapter per platform from the shared scrape config.
func buildScrapers(cfg *config.Config) map[string]domain.Scraper {
	return map[string]domain.Scraper{
		"shopify": scrape.NewShopifyScraper(scrape.ShopifyConfig{
			RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
			Burst:             cfg.Scrape.Burst,
			PageSize:          cfg.Scrape.PageSize,
			MaxPages:          cfg.Scrape.MaxPages,
			Timeout:           cfg.Scrape.Timeout,
			UserAgent:         cfg.Scrape.UserAgent,
		}),
		"lululemon": scrape.NewLululemonScraper(scrape.LululemonConfig{
			RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
			Burst:             cfg.Scrape.Burst,
			Timeout:           cfg.Scrape.Timeout,
			UserAgent:         cfg.Scrape.UserAgent,
		}),
		"bigcommerce": scrape.NewBigCommerceScraper(scrape.BigCommerceConfig{
			MaxPages: cfg.Scrape.MaxPages,
		}),
	}
}

// loadEnrichments reads the optional per-handle enrichment file. A missing
// path just means no enrichment data for this run.
func loadEnrichments(path string) (map[string]domain.Enrichment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var enrichments map[string]domain.Enrichment
	if err := json.Unmarshal(data, &enrichments); err != nil {
		return nil, err
	}
	log.Printf("Loaded enrichment records for %d products", len(enrichments))
	return enrichments, nil
}

func extractionThresholds(cfg config.ExtractionConfig) usecase.ExtractionThresholds {
	return usecase.ExtractionThresholds{
		UnlabeledCmThreshold: cfg.UnlabeledCmThreshold,
		LengthCmThreshold:    cfg.LengthCmThreshold,
		WidthCmThreshold:     cfg.WidthCmThreshold,
		BareThicknessMaxMm:   cfg.BareThicknessMaxMm,
		BaseConfidence:       cfg.BaseConfidence,
		PairBaseConfidence:   cfg.PairBaseConfidence,
		ConfidenceBonus:      cfg.ConfidenceBonus,
		PairConfidenceBonus:  cfg.PairConfidenceBonus,
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matfinder/backend/internal/domain"
)

type fakeScraper struct {
	products []domain.RawCatalogProduct
	err      error
}

func (f *fakeScraper) FetchProducts(_ context.Context, _ domain.BrandSource) ([]domain.RawCatalogProduct, error) {
	return f.products, f.err
}

type fakeRegistry struct {
	hashes map[string]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{hashes: make(map[string]string)}
}

func (f *fakeRegistry) Get(_ context.Context, key string) (string, error) {
	hash, ok := f.hashes[key]
	if !ok {
		return "", domain.ErrRegistryMiss
	}
	return hash, nil
}

func (f *fakeRegistry) Set(_ context.Context, key, hash string) error {
	f.hashes[key] = hash
	return nil
}

type fakeStore struct {
	saved   []domain.NormalizedProduct
	saveErr error
}

func (f *fakeStore) SaveAll(_ context.Context, products []domain.NormalizedProduct) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = products
	return nil
}

func (f *fakeStore) List(_ context.Context, _ domain.ProductFilter) ([]domain.NormalizedProduct, error) {
	return f.saved, nil
}

func (f *fakeStore) GetBySlug(_ context.Context, _ string) (*domain.NormalizedProduct, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeStore) Brands(_ context.Context) ([]domain.BrandSummary, error) {
	return nil, nil
}

type fakeExporter struct {
	products []domain.NormalizedProduct
	brands   []domain.BrandSummary
	calls    int
}

func (f *fakeExporter) ExportCatalog(products []domain.NormalizedProduct, brands []domain.BrandSummary, _ domain.CatalogStats) error {
	f.products = products
	f.brands = brands
	f.calls++
	return nil
}

type fakeIndex struct {
	indexed []domain.NormalizedProduct
	err     error
}

func (f *fakeIndex) IndexProducts(_ context.Context, products []domain.NormalizedProduct) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = products
	return nil
}

func rawProduct(handle, title string, price float64) domain.RawCatalogProduct {
	return domain.RawCatalogProduct{
		Title:    title,
		Handle:   handle,
		BodyHTML: "<p>Natural rubber, 5mm thick.</p>",
		Variants: []domain.Variant{{Price: price, Grams: 2000, Available: true}},
	}
}

func TestPipelineRun(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{
		rawProduct("classic", "Classic Mat", 99),
		rawProduct("travel", "Travel Mat", 79),
	}}
	registry := newFakeRegistry()
	store := &fakeStore{}
	exporter := &fakeExporter{}
	index := &fakeIndex{}

	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		registry, store, exporter, index, PipelineConfig{},
	)

	sources := []domain.BrandSource{{Name: "ZenFlow", Slug: "zenflow", Platform: "shopify"}}
	report, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.ProductCount != 2 {
		t.Errorf("ProductCount = %d, want 2", report.ProductCount)
	}
	if len(report.Brands) != 1 {
		t.Fatalf("Brands = %+v, want one entry", report.Brands)
	}
	brand := report.Brands[0]
	if brand.Fetched != 2 || brand.Normalized != 2 || brand.Invalid != 0 {
		t.Errorf("brand report = %+v", brand)
	}
	if !brand.Changed {
		t.Error("first run must report changed")
	}

	if len(store.saved) != 2 {
		t.Errorf("store received %d products", len(store.saved))
	}
	if exporter.calls != 1 || len(exporter.products) != 2 || len(exporter.brands) != 1 {
		t.Errorf("exporter: calls=%d products=%d brands=%d", exporter.calls, len(exporter.products), len(exporter.brands))
	}
	if len(index.indexed) != 2 {
		t.Errorf("index received %d products", len(index.indexed))
	}
	if report.Stats.ProductCount != 2 || report.Stats.BrandCount != 1 {
		t.Errorf("stats = %+v", report.Stats)
	}
}

func TestPipelineRun_ChangeDetection(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{rawProduct("classic", "Classic Mat", 99)}}
	registry := newFakeRegistry()
	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		registry, &fakeStore{}, nil, nil, PipelineConfig{},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	first, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !first.Brands[0].Changed {
		t.Error("unseen brand must report changed")
	}

	second, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Brands[0].Changed {
		t.Error("identical payload must report unchanged")
	}

	scraper.products[0].Title = "Classic Mat v2"
	third, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if !third.Brands[0].Changed {
		t.Error("modified payload must report changed")
	}
}

func TestPipelineRun_SkipUnchanged(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{rawProduct("classic", "Classic Mat", 99)}}
	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		newFakeRegistry(), &fakeStore{}, nil, nil,
		PipelineConfig{SkipUnchanged: true},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	first, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Brands[0].Normalized != 1 {
		t.Errorf("first run normalized = %d, want 1", first.Brands[0].Normalized)
	}

	second, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Brands[0].Changed || second.Brands[0].Normalized != 0 {
		t.Errorf("second run = %+v, want skipped", second.Brands[0])
	}
}

func TestPipelineRun_FetchFailureIsolated(t *testing.T) {
	good := &fakeScraper{products: []domain.RawCatalogProduct{rawProduct("classic", "Classic Mat", 99)}}
	bad := &fakeScraper{err: domain.ErrScrapeFailed}
	store := &fakeStore{}

	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": good, "bigcommerce": bad},
		newFakeRegistry(), store, nil, nil, PipelineConfig{},
	)

	sources := []domain.BrandSource{
		{Slug: "broken", Platform: "bigcommerce"},
		{Slug: "zenflow", Platform: "shopify"},
		{Slug: "orphan", Platform: "woocommerce"},
	}
	report, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.ProductCount != 1 {
		t.Errorf("ProductCount = %d, want 1 (good brand only)", report.ProductCount)
	}
	if report.Brands[0].FetchError == "" {
		t.Error("failing scraper must record a fetch error")
	}
	if report.Brands[1].FetchError != "" {
		t.Errorf("healthy brand recorded error %q", report.Brands[1].FetchError)
	}
	if report.Brands[2].FetchError == "" {
		t.Error("unknown platform must record a fetch error")
	}
	if len(store.saved) != 1 {
		t.Errorf("store received %d products", len(store.saved))
	}
}

func TestPipelineRun_InvalidProductsExcluded(t *testing.T) {
	products := []domain.RawCatalogProduct{
		rawProduct("classic", "Classic Mat", 99),
		rawProduct("freebie", "Freebie Mat", 0), // zero price fails validation
		{Handle: "nameless", Variants: []domain.Variant{{Price: 10}}},
	}
	scraper := &fakeScraper{products: products}
	store := &fakeStore{}

	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		newFakeRegistry(), store, nil, nil, PipelineConfig{},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	report, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.ProductCount != 1 {
		t.Errorf("ProductCount = %d, want 1", report.ProductCount)
	}
	if len(report.InvalidProducts) != 2 {
		t.Fatalf("InvalidProducts = %+v, want 2 entries", report.InvalidProducts)
	}
	if report.Brands[0].Invalid != 2 {
		t.Errorf("brand Invalid = %d, want 2", report.Brands[0].Invalid)
	}
	for _, invalid := range report.InvalidProducts {
		if len(invalid.Reasons) == 0 {
			t.Errorf("invalid product %q has no reasons", invalid.Handle)
		}
	}
}

func TestPipelineRun_SearchIndexFailureNonFatal(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{rawProduct("classic", "Classic Mat", 99)}}
	index := &fakeIndex{err: errors.New("meilisearch unreachable")}

	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		newFakeRegistry(), &fakeStore{}, nil, index, PipelineConfig{},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	report, err := service.Run(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("Run must tolerate index failure, got %v", err)
	}
	if report.ProductCount != 1 {
		t.Errorf("ProductCount = %d, want 1", report.ProductCount)
	}
}

func TestPipelineRun_StoreFailureIsFatal(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{rawProduct("classic", "Classic Mat", 99)}}
	store := &fakeStore{saveErr: domain.ErrStoreUnavailable}

	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		newFakeRegistry(), store, nil, nil, PipelineConfig{},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	_, err := service.Run(context.Background(), sources, nil)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestPipelineRun_EnrichmentByHandle(t *testing.T) {
	scraper := &fakeScraper{products: []domain.RawCatalogProduct{
		{
			Title:    "Plain Mat",
			Handle:   "plain-mat",
			BodyHTML: "<p>A premium mat.</p>",
			Variants: []domain.Variant{{Price: 50}},
		},
	}}
	store := &fakeStore{}
	service := NewPipelineService(
		map[string]domain.Scraper{"shopify": scraper},
		newFakeRegistry(), store, nil, nil, PipelineConfig{},
	)
	sources := []domain.BrandSource{{Slug: "zenflow", Platform: "shopify"}}

	enrichments := map[string]domain.Enrichment{
		"plain-mat": {AppendText: &domain.AppendText{Text: "Pure cork surface.", Confidence: 0.9}},
	}
	_, err := service.Run(context.Background(), sources, enrichments)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].Material != "Cork" {
		t.Errorf("saved = %+v, want cork material via enrichment", store.saved)
	}
}

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/matfinder/backend/internal/domain"
)

// MemoryStore keeps the aggregated catalog in process memory. It serves the
// API when no database is configured and backs the handler tests.
type MemoryStore struct {
	products []domain.NormalizedProduct
	bySlug   map[string]int
	mutex    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySlug: make(map[string]int),
	}
}

// SaveAll replaces the stored catalog.
func (s *MemoryStore) SaveAll(ctx context.Context, products []domain.NormalizedProduct) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.products = make([]domain.NormalizedProduct, len(products))
	copy(s.products, products)

	s.bySlug = make(map[string]int, len(products))
	for i, product := range s.products {
		s.bySlug[product.Slug] = i
	}
	return nil
}

// List returns products matching the filter, in stored order.
func (s *MemoryStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.NormalizedProduct, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var results []domain.NormalizedProduct
	for _, product := range s.products {
		if !matchesFilter(product, filter) {
			continue
		}
		results = append(results, product)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// GetBySlug returns one product, or ErrProductNotFound.
func (s *MemoryStore) GetBySlug(ctx context.Context, slug string) (*domain.NormalizedProduct, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	index, exists := s.bySlug[slug]
	if !exists {
		return nil, domain.ErrProductNotFound
	}
	product := s.products[index]
	return &product, nil
}

// Brands summarizes the stored catalog per brand, ordered by slug.
func (s *MemoryStore) Brands(ctx context.Context) ([]domain.BrandSummary, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := make(map[string]*domain.BrandSummary)
	for _, product := range s.products {
		summary, exists := counts[product.BrandSlug]
		if !exists {
			summary = &domain.BrandSummary{Name: product.BrandName, Slug: product.BrandSlug}
			counts[product.BrandSlug] = summary
		}
		summary.ProductCount++
	}

	brands := make([]domain.BrandSummary, 0, len(counts))
	for _, summary := range counts {
		brands = append(brands, *summary)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Slug < brands[j].Slug })
	return brands, nil
}

// matchesFilter applies every set constraint; zero values pass everything.
// Dimension filters exclude products with no extracted value for that
// dimension — an unknown thickness cannot satisfy a thickness constraint.
func matchesFilter(product domain.NormalizedProduct, filter domain.ProductFilter) bool {
	if filter.BrandSlug != "" && product.BrandSlug != filter.BrandSlug {
		return false
	}
	if filter.Material != "" && !strings.EqualFold(product.Material, filter.Material) {
		return false
	}
	if filter.MinThicknessMm > 0 && product.ThicknessMmMax < filter.MinThicknessMm {
		return false
	}
	if filter.MaxLengthCm > 0 && (product.LengthCmMax == 0 || product.LengthCmMax > filter.MaxLengthCm) {
		return false
	}
	return true
}

package usecase

import (
	"fmt"
	"sort"

	"github.com/matfinder/backend/internal/domain"
)

// AggregateCatalogs merges per-brand normalized product slices into one
// combined catalog. Input order is preserved; slug collisions across brands
// get a numeric suffix (-2, -3, …) so every product keeps a stable, unique
// slug.
func AggregateCatalogs(brandCatalogs [][]domain.NormalizedProduct) []domain.NormalizedProduct {
	total := 0
	for _, catalog := range brandCatalogs {
		total += len(catalog)
	}

	merged := make([]domain.NormalizedProduct, 0, total)
	slugCount := make(map[string]int, total)

	for _, catalog := range brandCatalogs {
		for _, product := range catalog {
			slugCount[product.Slug]++
			if n := slugCount[product.Slug]; n > 1 {
				product.Slug = fmt.Sprintf("%s-%d", product.Slug, n)
			}
			merged = append(merged, product)
		}
	}
	return merged
}

// BuildBrandIndex summarizes the aggregated catalog per brand, ordered by
// brand slug.
func BuildBrandIndex(products []domain.NormalizedProduct) []domain.BrandSummary {
	counts := make(map[string]*domain.BrandSummary)
	for _, product := range products {
		summary, ok := counts[product.BrandSlug]
		if !ok {
			summary = &domain.BrandSummary{Name: product.BrandName, Slug: product.BrandSlug}
			counts[product.BrandSlug] = summary
		}
		summary.ProductCount++
	}

	index := make([]domain.BrandSummary, 0, len(counts))
	for _, summary := range counts {
		index = append(index, *summary)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Slug < index[j].Slug })
	return index
}

// ComputeCatalogStats derives the stats export from the aggregated catalog:
// price distribution over per-product minimum prices, plus material and
// feature histograms.
func ComputeCatalogStats(products []domain.NormalizedProduct) domain.CatalogStats {
	stats := domain.CatalogStats{
		MaterialHistogram: make(map[string]int),
		FeatureHistogram:  make(map[string]int),
	}

	brands := make(map[string]bool)
	var prices []float64

	for _, product := range products {
		stats.ProductCount++
		brands[product.BrandSlug] = true

		if product.PriceMin > 0 {
			prices = append(prices, product.PriceMin)
		}
		if product.Material != "" {
			stats.MaterialHistogram[product.Material]++
		}
		for _, feature := range product.Features {
			stats.FeatureHistogram[feature]++
		}
		if product.LengthCmMax > 0 || product.DiameterCmMax > 0 {
			stats.WithDimensions++
		} else {
			stats.WithoutDimensions++
		}
	}

	stats.BrandCount = len(brands)

	if len(prices) > 0 {
		sort.Float64s(prices)
		stats.PriceMin = prices[0]
		stats.PriceMax = prices[len(prices)-1]

		sum := 0.0
		for _, price := range prices {
			sum += price
		}
		stats.PriceAvg = sum / float64(len(prices))

		mid := len(prices) / 2
		if len(prices)%2 == 0 {
			stats.PriceMedian = (prices[mid-1] + prices[mid]) / 2
		} else {
			stats.PriceMedian = prices[mid]
		}
	}
	return stats
}

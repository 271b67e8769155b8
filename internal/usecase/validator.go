package usecase

import "github.com/matfinder/backend/internal/domain"

// ValidationResult reports whether a normalized record satisfies the
// required-field contract, with one reason per failure.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateProduct checks required-field presence and sanity. The domain
// accepts partial extraction, so only identity and price are mandatory:
// name, slug, brand slug, and a positive minimum price.
func ValidateProduct(product domain.NormalizedProduct) ValidationResult {
	var errors []string

	if product.Name == "" {
		errors = append(errors, "missing name")
	}
	if product.Slug == "" {
		errors = append(errors, "missing slug")
	}
	if product.BrandSlug == "" {
		errors = append(errors, "missing brand slug")
	}
	if product.PriceMin <= 0 {
		errors = append(errors, "minimum price must be positive")
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product slug has no entry in the catalog store
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrRegistryMiss is returned when a hash registry key has no recorded value
	ErrRegistryMiss = errors.New("hash registry miss")

	// ErrScrapeFailed is returned when a storefront scrape fails after retries
	ErrScrapeFailed = errors.New("storefront scrape failed")

	// ErrStoreUnavailable is returned when the catalog store cannot be reached
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)

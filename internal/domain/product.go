package domain

// RawCatalogProduct is the vendor-neutral representation of one storefront
// product as produced by the scraper adapters (Shopify products.json,
// BigCommerce, Lululemon GraphQL). It is produced once per scrape and
// immutable thereafter.
type RawCatalogProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Tags        []string  `json:"tags"`
	Variants    []Variant `json:"variants"`
	Options     []Option  `json:"options"`
}

// Variant is one concrete purchasable SKU, combining one value from each
// option, with its own price, availability and mass.
type Variant struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Option1   string  `json:"option1"`
	Option2   string  `json:"option2"`
	Option3   string  `json:"option3"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Grams     float64 `json:"grams"`
	Available bool    `json:"available"`
}

// Option is a named product attribute with an enumerated set of string
// values (e.g. "Color": ["Red","Blue"]). Values are the catalog's own
// enumeration and are not necessarily unique.
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// BrandSource describes one storefront to scrape: which platform adapter to
// use and where to point it.
type BrandSource struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Platform string `json:"platform"` // "shopify", "bigcommerce" or "lululemon"
	BaseURL  string `json:"base_url"`
}

// BrandCatalog is the raw scrape result for one brand on one day, the shape
// persisted as the per-brand input JSON document.
type BrandCatalog struct {
	Products []RawCatalogProduct `json:"products"`
}

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matfinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// ShopifyScraper reads a storefront's public products.json listing. The
// endpoint is paginated; pages are fetched sequentially until one comes back
// empty or short.
type ShopifyScraper struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	pageSize    int
	maxPages    int
	userAgent   string
}

// ShopifyConfig tunes the Shopify adapter. Zero values fall back to
// storefront-friendly defaults.
type ShopifyConfig struct {
	RequestsPerSecond float64
	Burst             int
	PageSize          int
	MaxPages          int
	Timeout           time.Duration
	UserAgent         string
}

// NewShopifyScraper creates a Shopify products.json scraper.
func NewShopifyScraper(config ShopifyConfig) *ShopifyScraper {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 0.5
	}
	if config.Burst <= 0 {
		config.Burst = 2
	}
	if config.PageSize <= 0 {
		config.PageSize = 250
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 40
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "MatFinder/1.0"
	}

	return &ShopifyScraper{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		pageSize:    config.PageSize,
		maxPages:    config.MaxPages,
		userAgent:   config.UserAgent,
	}
}

// shopifyProductsPage is the wire shape of one products.json page.
type shopifyProductsPage struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        tagList          `json:"tags"`
	Variants    []shopifyVariant `json:"variants"`
	Options     []shopifyOption  `json:"options"`
}

type shopifyVariant struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Option1   string  `json:"option1"`
	Option2   string  `json:"option2"`
	Option3   string  `json:"option3"`
	SKU       string  `json:"sku"`
	Price     string  `json:"price"`
	Grams     float64 `json:"grams"`
	Available bool    `json:"available"`
}

type shopifyOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// tagList accepts both wire encodings Shopify uses for tags: a JSON array
// and a single comma-separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = nil
	for _, tag := range strings.Split(joined, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			*t = append(*t, trimmed)
		}
	}
	return nil
}

// FetchProducts walks the paginated products.json listing for one storefront.
func (s *ShopifyScraper) FetchProducts(ctx context.Context, source domain.BrandSource) ([]domain.RawCatalogProduct, error) {
	log.Printf("[SHOPIFY] %s: fetching catalog from %s", source.Slug, source.BaseURL)

	var products []domain.RawCatalogProduct
	for page := 1; page <= s.maxPages; page++ {
		pageURL := fmt.Sprintf("%s/products.json?limit=%d&page=%d",
			strings.TrimRight(source.BaseURL, "/"), s.pageSize, page)

		batch, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", source.Slug, page, err)
		}
		if len(batch.Products) == 0 {
			break
		}

		for _, product := range batch.Products {
			products = append(products, product.toDomain())
		}
		if len(batch.Products) < s.pageSize {
			break
		}
	}

	log.Printf("[SHOPIFY] %s: fetched %d products", source.Slug, len(products))
	return products, nil
}

// fetchPage retrieves one page, retrying transient failures up to 3 times
// with linear backoff.
func (s *ShopifyScraper) fetchPage(ctx context.Context, pageURL string) (*shopifyProductsPage, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			log.Printf("[SHOPIFY] request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[SHOPIFY] status %d (attempt %d) for %s", resp.StatusCode, attempt, pageURL)
			if resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: products.json not found", domain.ErrScrapeFailed)
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrScrapeFailed, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var page shopifyProductsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding products.json: %w", err)
		}
		return &page, nil
	}
	return nil, lastErr
}

func (p shopifyProduct) toDomain() domain.RawCatalogProduct {
	product := domain.RawCatalogProduct{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Handle:      p.Handle,
		BodyHTML:    p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        p.Tags,
	}
	for _, variant := range p.Variants {
		price, _ := strconv.ParseFloat(variant.Price, 64)
		product.Variants = append(product.Variants, domain.Variant{
			ID:        strconv.FormatInt(variant.ID, 10),
			Title:     variant.Title,
			Option1:   variant.Option1,
			Option2:   variant.Option2,
			Option3:   variant.Option3,
			SKU:       variant.SKU,
			Price:     price,
			Grams:     variant.Grams,
			Available: variant.Available,
		})
	}
	for _, option := range p.Options {
		product.Options = append(product.Options, domain.Option{
			Name:   option.Name,
			Values: option.Values,
		})
	}
	return product
}

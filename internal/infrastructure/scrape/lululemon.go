package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/matfinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// LululemonScraper pulls the accessories catalog through the storefront
// GraphQL endpoint, paginating with cursors. Only the yoga accessory
// categories carry mats, so the query is category-scoped.
type LululemonScraper struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	pageSize    int
	category    string
	userAgent   string
}

// LululemonConfig tunes the Lululemon adapter.
type LululemonConfig struct {
	RequestsPerSecond float64
	Burst             int
	PageSize          int
	Category          string
	Timeout           time.Duration
	UserAgent         string
}

// NewLululemonScraper creates a Lululemon GraphQL scraper.
func NewLululemonScraper(config LululemonConfig) *LululemonScraper {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 0.5
	}
	if config.Burst <= 0 {
		config.Burst = 2
	}
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.Category == "" {
		config.Category = "yoga-mats-props"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "MatFinder/1.0"
	}

	return &LululemonScraper{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		pageSize:    config.PageSize,
		category:    config.Category,
		userAgent:   config.UserAgent,
	}
}

const lululemonProductsQuery = `
query CategoryProducts($category: String!, $first: Int!, $after: String) {
  categoryProducts(category: $category, first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      title
      handle
      descriptionHtml
      productType
      tags
      options { name values }
      variants {
        id
        title
        sku
        price
        grams
        available
        selectedOptions { value }
      }
    }
  }
}`

type lululemonRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type lululemonResponse struct {
	Data struct {
		CategoryProducts struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []lululemonProduct `json:"nodes"`
		} `json:"categoryProducts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type lululemonProduct struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Handle          string             `json:"handle"`
	DescriptionHTML string             `json:"descriptionHtml"`
	ProductType     string             `json:"productType"`
	Tags            []string           `json:"tags"`
	Options         []shopifyOption    `json:"options"`
	Variants        []lululemonVariant `json:"variants"`
}

type lululemonVariant struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	SKU             string  `json:"sku"`
	Price           float64 `json:"price"`
	Grams           float64 `json:"grams"`
	Available       bool    `json:"available"`
	SelectedOptions []struct {
		Value string `json:"value"`
	} `json:"selectedOptions"`
}

// FetchProducts pages through the category with GraphQL cursors.
func (s *LululemonScraper) FetchProducts(ctx context.Context, source domain.BrandSource) ([]domain.RawCatalogProduct, error) {
	log.Printf("[LULULEMON] %s: fetching category %q", source.Slug, s.category)

	endpoint := strings.TrimRight(source.BaseURL, "/") + "/graphql"

	var products []domain.RawCatalogProduct
	var cursor string
	for {
		page, err := s.fetchPage(ctx, endpoint, cursor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Slug, err)
		}
		for _, node := range page.Data.CategoryProducts.Nodes {
			products = append(products, node.toDomain(source))
		}
		if !page.Data.CategoryProducts.PageInfo.HasNextPage {
			break
		}
		cursor = page.Data.CategoryProducts.PageInfo.EndCursor
	}

	log.Printf("[LULULEMON] %s: fetched %d products", source.Slug, len(products))
	return products, nil
}

func (s *LululemonScraper) fetchPage(ctx context.Context, endpoint, cursor string) (*lululemonResponse, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	variables := map[string]interface{}{
		"category": s.category,
		"first":    s.pageSize,
	}
	if cursor != "" {
		variables["after"] = cursor
	}
	payload, err := json.Marshal(lululemonRequest{Query: lululemonProductsQuery, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrScrapeFailed, resp.StatusCode, string(body))
	}

	var decoded lululemonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("%w: graphql: %s", domain.ErrScrapeFailed, decoded.Errors[0].Message)
	}
	return &decoded, nil
}

func (p lululemonProduct) toDomain(source domain.BrandSource) domain.RawCatalogProduct {
	product := domain.RawCatalogProduct{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		BodyHTML:    p.DescriptionHTML,
		Vendor:      source.Name,
		ProductType: p.ProductType,
		Tags:        p.Tags,
	}
	for _, option := range p.Options {
		product.Options = append(product.Options, domain.Option{Name: option.Name, Values: option.Values})
	}
	for _, variant := range p.Variants {
		converted := domain.Variant{
			ID:        variant.ID,
			Title:     variant.Title,
			SKU:       variant.SKU,
			Price:     variant.Price,
			Grams:     variant.Grams,
			Available: variant.Available,
		}
		// selectedOptions arrive positionally, matching the options list.
		for i, selected := range variant.SelectedOptions {
			switch i {
			case 0:
				converted.Option1 = selected.Value
			case 1:
				converted.Option2 = selected.Value
			case 2:
				converted.Option3 = selected.Value
			}
		}
		product.Variants = append(product.Variants, converted)
	}
	return product
}

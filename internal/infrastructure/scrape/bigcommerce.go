package scrape

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/matfinder/backend/internal/domain"
)

// BigCommerceScraper drives a headless browser over a BigCommerce storefront.
// BigCommerce exposes no public catalog JSON, but its themes render product
// data as JSON-LD, so the adapter walks the paginated category listing and
// reads the structured-data blocks out of each page.
type BigCommerceScraper struct {
	categoryPath string
	maxPages     int
	pageDelay    time.Duration
	navTimeout   time.Duration
}

// BigCommerceConfig tunes the headless adapter.
type BigCommerceConfig struct {
	CategoryPath string
	MaxPages     int
	PageDelay    time.Duration
	NavTimeout   time.Duration
}

// NewBigCommerceScraper creates a headless BigCommerce scraper.
func NewBigCommerceScraper(config BigCommerceConfig) *BigCommerceScraper {
	if config.CategoryPath == "" {
		config.CategoryPath = "/yoga-mats/"
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 20
	}
	if config.PageDelay <= 0 {
		config.PageDelay = 3 * time.Second
	}
	if config.NavTimeout <= 0 {
		config.NavTimeout = 10 * time.Minute
	}
	return &BigCommerceScraper{
		categoryPath: config.CategoryPath,
		maxPages:     config.MaxPages,
		pageDelay:    config.PageDelay,
		navTimeout:   config.NavTimeout,
	}
}

// newContext creates a fresh chromedp context (one browser, one tab at a time).
func (s *BigCommerceScraper) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// bcProduct is the shape the in-page extraction script returns per product.
type bcProduct struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
	OptionName  string   `json:"optionName"`
	OptionVals  []string `json:"optionValues"`
}

// FetchProducts walks the category listing page by page.
func (s *BigCommerceScraper) FetchProducts(ctx context.Context, source domain.BrandSource) ([]domain.RawCatalogProduct, error) {
	log.Printf("[BIGCOMMERCE] %s: starting headless scrape of %s", source.Slug, source.BaseURL)

	browserCtx, cancel := s.newContext(ctx)
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.navTimeout)
	defer cancelTimeout()

	base := strings.TrimRight(source.BaseURL, "/")
	seen := make(map[string]bool)

	var products []domain.RawCatalogProduct
	for page := 1; page <= s.maxPages; page++ {
		pageURL := fmt.Sprintf("%s%s?page=%d", base, s.categoryPath, page)

		batch, err := s.scrapePage(browserCtx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrScrapeFailed, source.Slug, err)
			}
			log.Printf("[BIGCOMMERCE] %s: page %d failed, stopping: %v", source.Slug, page, err)
			break
		}
		if len(batch) == 0 {
			break
		}

		added := 0
		for _, raw := range batch {
			if raw.URL == "" || seen[raw.URL] {
				continue
			}
			seen[raw.URL] = true
			products = append(products, raw.toDomain(source))
			added++
		}
		// A page of nothing-but-duplicates means the storefront looped back.
		if added == 0 {
			break
		}
	}

	log.Printf("[BIGCOMMERCE] %s: fetched %d products", source.Slug, len(products))
	return products, nil
}

// scrapePage loads one listing page and reads every product JSON-LD block.
func (s *BigCommerceScraper) scrapePage(ctx context.Context, pageURL string) ([]bcProduct, error) {
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(s.pageDelay), // give the theme's JS time to render
	)
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	var batch []bcProduct
	err = chromedp.Run(ctx, chromedp.Evaluate(`
		(function() {
			var results = [];
			document.querySelectorAll('script[type="application/ld+json"]').forEach(function(block) {
				var data;
				try { data = JSON.parse(block.textContent); } catch (e) { return; }
				var items = Array.isArray(data) ? data : [data];
				items.forEach(function(item) {
					if (!item || item['@type'] !== 'Product') return;
					var offer = item.offers || {};
					if (Array.isArray(offer)) offer = offer[0] || {};
					results.push({
						url: item.url || '',
						title: item.name || '',
						description: item.description || '',
						brand: (item.brand && item.brand.name) || '',
						price: parseFloat(offer.price || '0') || 0,
						available: String(offer.availability || '').indexOf('InStock') !== -1,
						optionName: '',
						optionValues: []
					});
				});
			});
			return results;
		})()
	`, &batch))
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return batch, nil
}

func (p bcProduct) toDomain(source domain.BrandSource) domain.RawCatalogProduct {
	handle := p.URL
	if idx := strings.LastIndex(strings.TrimRight(handle, "/"), "/"); idx >= 0 {
		handle = strings.Trim(handle[idx+1:], "/")
	}

	vendor := p.Brand
	if vendor == "" {
		vendor = source.Name
	}

	product := domain.RawCatalogProduct{
		ID:       p.URL,
		Title:    p.Title,
		Handle:   handle,
		BodyHTML: p.Description,
		Vendor:   vendor,
		Variants: []domain.Variant{{
			Title:     p.Title,
			Price:     p.Price,
			Available: p.Available,
		}},
	}
	if p.OptionName != "" && len(p.OptionVals) > 0 {
		product.Options = append(product.Options, domain.Option{Name: p.OptionName, Values: p.OptionVals})
	}
	return product
}

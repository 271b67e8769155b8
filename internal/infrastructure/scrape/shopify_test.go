package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matfinder/backend/internal/domain"
)

func testShopifyConfig() ShopifyConfig {
	return ShopifyConfig{
		RequestsPerSecond: 1000,
		Burst:             1000,
		PageSize:          2,
	}
}

func TestShopifyFetchProducts_Paginates(t *testing.T) {
	pages := map[string]string{
		"1": `{"products":[
			{"id":11,"title":"Classic Mat","handle":"classic-mat","body_html":"<p>5mm thick.</p>",
			 "vendor":"ZenFlow","product_type":"Yoga Mat","tags":["yoga","mat"],
			 "variants":[{"id":101,"title":"Default","price":"99.00","grams":2500,"available":true,
			             "option1":"Default Title"}],
			 "options":[{"name":"Title","values":["Default Title"]}]},
			{"id":12,"title":"Travel Mat","handle":"travel-mat","tags":"travel, mat",
			 "variants":[{"id":102,"price":"79.50","grams":900,"available":false}]}
		]}`,
		"2": `{"products":[
			{"id":13,"title":"Pro Mat","handle":"pro-mat",
			 "variants":[{"id":103,"price":"128.00","grams":3300,"available":true}]}
		]}`,
	}

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products.json", r.URL.Path)
		page := r.URL.Query().Get("page")
		requests = append(requests, page)
		body, ok := pages[page]
		if !ok {
			body = `{"products":[]}`
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	scraper := NewShopifyScraper(testShopifyConfig())
	source := domain.BrandSource{Name: "ZenFlow", Slug: "zenflow", Platform: "shopify", BaseURL: server.URL}

	products, err := scraper.FetchProducts(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Page 2 came back short, so page 3 was never requested.
	assert.Equal(t, []string{"1", "2"}, requests)

	first := products[0]
	assert.Equal(t, "11", first.ID)
	assert.Equal(t, "Classic Mat", first.Title)
	assert.Equal(t, "classic-mat", first.Handle)
	assert.Equal(t, []string{"yoga", "mat"}, first.Tags)
	require.Len(t, first.Variants, 1)
	assert.Equal(t, 99.0, first.Variants[0].Price)
	assert.Equal(t, 2500.0, first.Variants[0].Grams)
	assert.True(t, first.Variants[0].Available)
	require.Len(t, first.Options, 1)
	assert.Equal(t, "Title", first.Options[0].Name)

	// Comma-separated tag string decodes like the array form.
	assert.Equal(t, []string{"travel", "mat"}, products[1].Tags)
	assert.Equal(t, 79.5, products[1].Variants[0].Price)
}

func TestShopifyFetchProducts_EmptyCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer server.Close()

	scraper := NewShopifyScraper(testShopifyConfig())
	products, err := scraper.FetchProducts(context.Background(), domain.BrandSource{Slug: "empty", BaseURL: server.URL})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestShopifyFetchProducts_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	scraper := NewShopifyScraper(testShopifyConfig())
	_, err := scraper.FetchProducts(context.Background(), domain.BrandSource{Slug: "missing", BaseURL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
}

func TestShopifyFetchProducts_RetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer server.Close()

	scraper := NewShopifyScraper(testShopifyConfig())
	products, err := scraper.FetchProducts(context.Background(), domain.BrandSource{Slug: "flaky", BaseURL: server.URL})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 3, hits)
}

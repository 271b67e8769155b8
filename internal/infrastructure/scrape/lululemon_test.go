package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matfinder/backend/internal/domain"
)

func testLululemonConfig() LululemonConfig {
	return LululemonConfig{
		RequestsPerSecond: 1000,
		Burst:             1000,
		PageSize:          10,
	}
}

func TestLululemonFetchProducts_CursorPagination(t *testing.T) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req lululemonRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "yoga-mats-props", req.Variables["category"])

		cursor, _ := req.Variables["after"].(string)
		cursors = append(cursors, cursor)

		if cursor == "" {
			fmt.Fprint(w, `{"data":{"categoryProducts":{
				"pageInfo":{"hasNextPage":true,"endCursor":"c1"},
				"nodes":[{
					"id":"gid://1","title":"The Mat 5mm","handle":"the-mat-5mm",
					"descriptionHtml":"<p>Natural rubber, 5mm.</p>","productType":"Mats",
					"tags":["yoga"],
					"options":[{"name":"Colour","values":["Black","Graphite"]}],
					"variants":[
						{"id":"gid://v1","title":"Black","sku":"LM1","price":98,"grams":2380,
						 "available":true,"selectedOptions":[{"value":"Black"}]}
					]
				}]
			}}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"categoryProducts":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[{
				"id":"gid://2","title":"Travel Mat","handle":"travel-mat",
				"variants":[{"id":"gid://v2","price":68,"available":true}]
			}]
		}}}`)
	}))
	defer server.Close()

	scraper := NewLululemonScraper(testLululemonConfig())
	source := domain.BrandSource{Name: "lululemon", Slug: "lululemon", Platform: "lululemon", BaseURL: server.URL}

	products, err := scraper.FetchProducts(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"", "c1"}, cursors)

	first := products[0]
	assert.Equal(t, "The Mat 5mm", first.Title)
	assert.Equal(t, "lululemon", first.Vendor)
	require.Len(t, first.Options, 1)
	assert.Equal(t, "Colour", first.Options[0].Name)
	require.Len(t, first.Variants, 1)
	assert.Equal(t, "Black", first.Variants[0].Option1)
	assert.Equal(t, 98.0, first.Variants[0].Price)
}

func TestLululemonFetchProducts_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"category not found"}]}`)
	}))
	defer server.Close()

	scraper := NewLululemonScraper(testLululemonConfig())
	_, err := scraper.FetchProducts(context.Background(), domain.BrandSource{Slug: "lululemon", BaseURL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
	assert.Contains(t, err.Error(), "category not found")
}

func TestLululemonFetchProducts_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	scraper := NewLululemonScraper(testLululemonConfig())
	_, err := scraper.FetchProducts(context.Background(), domain.BrandSource{Slug: "lululemon", BaseURL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
}

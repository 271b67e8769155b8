package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matfinder/backend/internal/domain"
	"github.com/matfinder/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store domain.CatalogStore
}

// NewHandler creates a new HTTP handler
func NewHandler(store domain.CatalogStore) *Handler {
	return &Handler{store: store}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "matfinder-backend",
		"version": "1.0.0",
	})
}

// ListProducts serves the filtered catalog listing
func (h *Handler) ListProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []domain.NormalizedProduct{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetProduct serves one product by slug
func (h *Handler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.store.GetBySlug(c.Request.Context(), slug)
	if errors.Is(err, domain.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListBrands serves the brand index
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.store.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list brands"})
		return
	}
	if brands == nil {
		brands = []domain.BrandSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(brands),
		"brands": brands,
	})
}

// GetStats serves catalog-wide statistics computed over the stored products
func (h *Handler) GetStats(c *gin.Context) {
	products, err := h.store.List(c.Request.Context(), domain.ProductFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, usecase.ComputeCatalogStats(products))
}

// parseProductFilter reads the listing query parameters. Numeric parameters
// must parse; anything else is a 400.
func parseProductFilter(c *gin.Context) (domain.ProductFilter, error) {
	filter := domain.ProductFilter{
		BrandSlug: c.Query("brand"),
		Material:  c.Query("material"),
	}

	if raw := c.Query("min_thickness_mm"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filter, errors.New("min_thickness_mm must be a non-negative number")
		}
		filter.MinThicknessMm = value
	}
	if raw := c.Query("max_length_cm"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return filter, errors.New("max_length_cm must be a non-negative number")
		}
		filter.MaxLengthCm = value
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = value
	}
	return filter, nil
}

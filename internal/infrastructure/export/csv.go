package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/matfinder/backend/internal/domain"
)

// writeProductsCSV flattens the catalog to one row per product. Measurement
// columns hold the resolved scalar; multi-valued fields are joined with "|".
func writeProductsCSV(path string, products []domain.NormalizedProduct) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"slug", "brand_slug", "name", "material",
		"thickness_mm", "length_cm", "width_cm", "diameter_cm", "weight_kg",
		"thickness_mm_min", "thickness_mm_max", "length_cm_min", "length_cm_max",
		"price_min", "price_max", "variant_count", "available",
		"features", "colors",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, product := range products {
		row := []string{
			product.Slug,
			product.BrandSlug,
			product.Name,
			product.Material,
			measurementColumn(product.Thickness),
			measurementColumn(product.Length),
			measurementColumn(product.Width),
			measurementColumn(product.Diameter),
			measurementColumn(product.Weight),
			floatColumn(product.ThicknessMmMin),
			floatColumn(product.ThicknessMmMax),
			floatColumn(product.LengthCmMin),
			floatColumn(product.LengthCmMax),
			floatColumn(product.PriceMin),
			floatColumn(product.PriceMax),
			strconv.Itoa(product.VariantCount),
			strconv.FormatBool(product.Available),
			strings.Join(product.Features, "|"),
			strings.Join(product.AvailableColors, "|"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", product.Slug, err)
		}
	}
	return nil
}

func measurementColumn(value *domain.MeasurementValue) string {
	if value == nil {
		return ""
	}
	return floatColumn(value.Value)
}

func floatColumn(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

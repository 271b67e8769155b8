package export

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/matfinder/backend/internal/domain"
)

// FileExporter writes the aggregation artifacts to an output directory:
// all-products.json, brands-index.json, stats.json and a flattened CSV.
type FileExporter struct {
	outputDir string
}

// NewFileExporter creates an exporter rooted at outputDir.
func NewFileExporter(outputDir string) *FileExporter {
	if outputDir == "" {
		outputDir = "output"
	}
	return &FileExporter{outputDir: outputDir}
}

// ExportCatalog writes every artifact. The first failure aborts the export;
// artifacts already written stay on disk.
func (e *FileExporter) ExportCatalog(
	products []domain.NormalizedProduct,
	brands []domain.BrandSummary,
	stats domain.CatalogStats,
) error {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := e.writeJSON("all-products.json", products); err != nil {
		return err
	}
	if err := e.writeJSON("brands-index.json", brands); err != nil {
		return err
	}
	if err := e.writeJSON("stats.json", stats); err != nil {
		return err
	}
	if err := writeProductsCSV(filepath.Join(e.outputDir, "products.csv"), products); err != nil {
		return err
	}

	log.Printf("[EXPORT] wrote %d products, %d brands to %s", len(products), len(brands), e.outputDir)
	return nil
}

func (e *FileExporter) writeJSON(name string, value interface{}) error {
	path := filepath.Join(e.outputDir, name)

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

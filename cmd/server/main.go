package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/matfinder/backend/config"
	httpDelivery "github.com/matfinder/backend/internal/delivery/http"
	"github.com/matfinder/backend/internal/domain"
	"github.com/matfinder/backend/internal/infrastructure/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MatFinder Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store Type: %s", cfg.Store.Type)

	// Initialize the catalog store
	var catalog domain.CatalogStore
	switch cfg.Store.Type {
	case "postgres":
		pgStore, err := store.NewPostgresStore(cfg.Store.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to open catalog store: %v", err)
		}
		defer pgStore.Close()
		catalog = pgStore
	default:
		memStore := store.NewMemoryStore()
		if err := loadCatalogFromExport(memStore, cfg.Export.OutputDir); err != nil {
			log.Printf("WARNING: no exported catalog loaded: %v (run the pipeline first)", err)
		}
		catalog = memStore
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadCatalogFromExport seeds the in-memory store from the pipeline's
// all-products.json so the API can serve without a database.
func loadCatalogFromExport(memStore *store.MemoryStore, outputDir string) error {
	if outputDir == "" {
		outputDir = "output"
	}
	path := filepath.Join(outputDir, "all-products.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var products []domain.NormalizedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := memStore.SaveAll(context.Background(), products); err != nil {
		return err
	}

	log.Printf("Loaded %d products from %s", len(products), path)
	return nil
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

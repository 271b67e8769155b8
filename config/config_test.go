package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("MATFINDER_SERVER_PORT")
		os.Unsetenv("MATFINDER_SERVER_ENVIRONMENT")
		os.Unsetenv("MATFINDER_SERVER_RATE_LIMIT_PER_IP")
		os.Unsetenv("MATFINDER_SCRAPE_REQUESTS_PER_SECOND")
		os.Unsetenv("MATFINDER_SCRAPE_TIMEOUT")
		os.Unsetenv("MATFINDER_STORE_TYPE")
		os.Unsetenv("MATFINDER_STORE_POSTGRES_URL")
		os.Unsetenv("MATFINDER_SEARCH_ENABLED")
		os.Unsetenv("MATFINDER_SEARCH_URL")
		os.Unsetenv("MATFINDER_EXPORT_OUTPUT_DIR")
		os.Unsetenv("MATFINDER_PIPELINE_SKIP_UNCHANGED")
		os.Unsetenv("MATFINDER_EXTRACTION_LENGTH_CM_THRESHOLD")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.RateLimitPerIP != 100 {
			t.Errorf("Server.RateLimitPerIP = %d, want 100", cfg.Server.RateLimitPerIP)
		}
		if cfg.Scrape.PageSize != 250 {
			t.Errorf("Scrape.PageSize = %d, want 250", cfg.Scrape.PageSize)
		}
		if cfg.Scrape.Timeout != 30*time.Second {
			t.Errorf("Scrape.Timeout = %v, want 30s", cfg.Scrape.Timeout)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Search.Enabled {
			t.Error("Search.Enabled = true, want false by default")
		}
		if cfg.Export.OutputDir != "output" {
			t.Errorf("Export.OutputDir = %s, want output", cfg.Export.OutputDir)
		}
	})

	t.Run("extraction defaults carry the calibrated thresholds", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Extraction.UnlabeledCmThreshold != 100 {
			t.Errorf("UnlabeledCmThreshold = %v, want 100", cfg.Extraction.UnlabeledCmThreshold)
		}
		if cfg.Extraction.LengthCmThreshold != 152 {
			t.Errorf("LengthCmThreshold = %v, want 152", cfg.Extraction.LengthCmThreshold)
		}
		if cfg.Extraction.WidthCmThreshold != 102 {
			t.Errorf("WidthCmThreshold = %v, want 102", cfg.Extraction.WidthCmThreshold)
		}
		if cfg.Extraction.BareThicknessMaxMm != 20 {
			t.Errorf("BareThicknessMaxMm = %v, want 20", cfg.Extraction.BareThicknessMaxMm)
		}
		if cfg.Extraction.BaseConfidence != 0.55 {
			t.Errorf("BaseConfidence = %v, want 0.55", cfg.Extraction.BaseConfidence)
		}
		if cfg.Extraction.PairBaseConfidence != 0.75 {
			t.Errorf("PairBaseConfidence = %v, want 0.75", cfg.Extraction.PairBaseConfidence)
		}
		if cfg.Extraction.ConfidenceBonus != 0.15 {
			t.Errorf("ConfidenceBonus = %v, want 0.15", cfg.Extraction.ConfidenceBonus)
		}
		if cfg.Extraction.PairConfidenceBonus != 0.10 {
			t.Errorf("PairConfidenceBonus = %v, want 0.10", cfg.Extraction.PairConfidenceBonus)
		}
		if cfg.Extraction.EnrichmentMinConfidence != 0.5 {
			t.Errorf("EnrichmentMinConfidence = %v, want 0.5", cfg.Extraction.EnrichmentMinConfidence)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MATFINDER_SERVER_PORT", "9090")
		os.Setenv("MATFINDER_SERVER_ENVIRONMENT", "production")
		os.Setenv("MATFINDER_SCRAPE_TIMEOUT", "10s")
		os.Setenv("MATFINDER_EXPORT_OUTPUT_DIR", "/tmp/catalog")
		os.Setenv("MATFINDER_PIPELINE_SKIP_UNCHANGED", "true")
		os.Setenv("MATFINDER_EXTRACTION_LENGTH_CM_THRESHOLD", "160")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Scrape.Timeout != 10*time.Second {
			t.Errorf("Scrape.Timeout = %v, want 10s", cfg.Scrape.Timeout)
		}
		if cfg.Export.OutputDir != "/tmp/catalog" {
			t.Errorf("Export.OutputDir = %s, want /tmp/catalog", cfg.Export.OutputDir)
		}
		if !cfg.Pipeline.SkipUnchanged {
			t.Error("Pipeline.SkipUnchanged = false, want true")
		}
		if cfg.Extraction.LengthCmThreshold != 160 {
			t.Errorf("Extraction.LengthCmThreshold = %v, want 160", cfg.Extraction.LengthCmThreshold)
		}
	})

	t.Run("fails validation for invalid store type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MATFINDER_STORE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid store type")
		}
	})

	t.Run("fails validation when postgres URL missing for postgres store", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MATFINDER_STORE_TYPE", "postgres")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Postgres URL")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store: StoreConfig{Type: "memory"},
			Extraction: ExtractionConfig{
				LengthCmThreshold: 152,
				WidthCmThreshold:  102,
				BaseConfidence:    0.55,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("validates postgres store with URL", func(t *testing.T) {
		cfg := base()
		cfg.Store = StoreConfig{Type: "postgres", PostgresURL: "postgres://localhost/matfinder"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid postgres config", err)
		}
	})

	t.Run("fails for postgres store without URL", func(t *testing.T) {
		cfg := base()
		cfg.Store = StoreConfig{Type: "postgres"}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for postgres without URL")
		}
	})

	t.Run("fails for unknown brand platform", func(t *testing.T) {
		cfg := base()
		cfg.Brands = []BrandConfig{{Name: "X", Slug: "x", Platform: "etsy", BaseURL: "https://x.example"}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for unknown platform")
		}
	})

	t.Run("fails for brand without slug or base URL", func(t *testing.T) {
		cfg := base()
		cfg.Brands = []BrandConfig{{Name: "X", Platform: "shopify"}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for incomplete brand")
		}
	})

	t.Run("fails when width threshold exceeds length threshold", func(t *testing.T) {
		cfg := base()
		cfg.Extraction.WidthCmThreshold = 200
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for inverted thresholds")
		}
	})

	t.Run("fails for out-of-range base confidence", func(t *testing.T) {
		cfg := base()
		cfg.Extraction.BaseConfidence = 1.5
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for confidence above 1")
		}
	})
}

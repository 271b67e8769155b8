package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Scrape     ScrapeConfig
	Store      StoreConfig
	Search     SearchConfig
	Export     ExportConfig
	Pipeline   PipelineConfig
	Extraction ExtractionConfig
	Brands     []BrandConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitPerIP int      `mapstructure:"rate_limit_per_ip"`
}

// ScrapeConfig holds scraper tuning shared across platform adapters
type ScrapeConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	PageSize          int           `mapstructure:"page_size"`
	MaxPages          int           `mapstructure:"max_pages"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// StoreConfig selects and configures the catalog store backend
type StoreConfig struct {
	Type        string `mapstructure:"type"` // "memory" or "postgres"
	PostgresURL string `mapstructure:"postgres_url"`
}

// SearchConfig configures the optional Meilisearch indexing stage
type SearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `mapstructure:"url"`
	APIKey    string `mapstructure:"api_key"`
	IndexName string `mapstructure:"index_name"`
}

// ExportConfig configures the file export stage
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// PipelineConfig holds pipeline behavior flags
type PipelineConfig struct {
	SkipUnchanged bool `mapstructure:"skip_unchanged"`
	Debug         bool `mapstructure:"debug"`
	// EnrichmentsFile points at an optional JSON file of per-handle
	// enrichment records merged into normalization. Empty disables it.
	EnrichmentsFile string `mapstructure:"enrichments_file"`
}

// ExtractionConfig exposes the extraction engine's tuned thresholds. The
// defaults are the calibrated values; override with care, they interact.
type ExtractionConfig struct {
	UnlabeledCmThreshold    float64 `mapstructure:"unlabeled_cm_threshold"`
	LengthCmThreshold       float64 `mapstructure:"length_cm_threshold"`
	WidthCmThreshold        float64 `mapstructure:"width_cm_threshold"`
	BareThicknessMaxMm      float64 `mapstructure:"bare_thickness_max_mm"`
	BaseConfidence          float64 `mapstructure:"base_confidence"`
	PairBaseConfidence      float64 `mapstructure:"pair_base_confidence"`
	ConfidenceBonus         float64 `mapstructure:"confidence_bonus"`
	PairConfidenceBonus     float64 `mapstructure:"pair_confidence_bonus"`
	EnrichmentMinConfidence float64 `mapstructure:"enrichment_min_confidence"`
}

// BrandConfig describes one storefront to scrape
type BrandConfig struct {
	Name     string `mapstructure:"name"`
	Slug     string `mapstructure:"slug"`
	Platform string `mapstructure:"platform"`
	BaseURL  string `mapstructure:"base_url"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/matfinder/")

	// Environment variable settings
	v.SetEnvPrefix("MATFINDER")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_ip", 100)

	// Scrape defaults
	v.SetDefault("scrape.requests_per_second", 0.5)
	v.SetDefault("scrape.burst", 2)
	v.SetDefault("scrape.page_size", 250)
	v.SetDefault("scrape.max_pages", 40)
	v.SetDefault("scrape.timeout", "30s")
	v.SetDefault("scrape.user_agent", "MatFinder/1.0")

	// Store defaults
	v.SetDefault("store.type", "memory")

	// Search defaults
	v.SetDefault("search.enabled", false)
	v.SetDefault("search.url", "http://localhost:7700")
	v.SetDefault("search.index_name", "products")

	// Export defaults
	v.SetDefault("export.output_dir", "output")

	// Pipeline defaults
	v.SetDefault("pipeline.skip_unchanged", false)
	v.SetDefault("pipeline.debug", false)
	v.SetDefault("pipeline.enrichments_file", "")

	// Extraction defaults (calibrated values)
	v.SetDefault("extraction.unlabeled_cm_threshold", 100.0)
	v.SetDefault("extraction.length_cm_threshold", 152.0)
	v.SetDefault("extraction.width_cm_threshold", 102.0)
	v.SetDefault("extraction.bare_thickness_max_mm", 20.0)
	v.SetDefault("extraction.base_confidence", 0.55)
	v.SetDefault("extraction.pair_base_confidence", 0.75)
	v.SetDefault("extraction.confidence_bonus", 0.15)
	v.SetDefault("extraction.pair_confidence_bonus", 0.10)
	v.SetDefault("extraction.enrichment_min_confidence", 0.5)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "memory" && config.Store.Type != "postgres" {
		return fmt.Errorf("store type must be 'memory' or 'postgres', got: %s", config.Store.Type)
	}
	if config.Store.Type == "postgres" && config.Store.PostgresURL == "" {
		return fmt.Errorf("Postgres URL is required when store type is 'postgres' (set MATFINDER_STORE_POSTGRES_URL)")
	}
	if config.Search.Enabled && config.Search.URL == "" {
		return fmt.Errorf("search URL is required when search is enabled")
	}

	for _, brand := range config.Brands {
		switch brand.Platform {
		case "shopify", "bigcommerce", "lululemon":
		default:
			return fmt.Errorf("brand %q: unknown platform %q", brand.Slug, brand.Platform)
		}
		if brand.Slug == "" || brand.BaseURL == "" {
			return fmt.Errorf("brand %q: slug and base_url are required", brand.Name)
		}
	}

	if config.Extraction.BaseConfidence < 0 || config.Extraction.BaseConfidence > 1 {
		return fmt.Errorf("extraction base confidence must be in [0,1], got: %v", config.Extraction.BaseConfidence)
	}
	if config.Extraction.WidthCmThreshold > config.Extraction.LengthCmThreshold {
		return fmt.Errorf("extraction width threshold (%v) must not exceed length threshold (%v)",
			config.Extraction.WidthCmThreshold, config.Extraction.LengthCmThreshold)
	}

	return nil
}

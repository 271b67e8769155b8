package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/matfinder/backend/internal/domain"
)

// PostgresStore persists the aggregated catalog. Each product is stored as a
// JSONB document with the filterable fields mirrored into indexed columns.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection, pings it, and ensures the backing
// table exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.createTable(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_products (
		slug             TEXT PRIMARY KEY,
		brand_slug       TEXT NOT NULL,
		brand_name       TEXT NOT NULL,
		material         TEXT,
		thickness_mm_max NUMERIC(8,2) DEFAULT 0,
		length_cm_max    NUMERIC(8,2) DEFAULT 0,
		price_min        NUMERIC(10,2) DEFAULT 0,
		document         JSONB NOT NULL,
		saved_at         TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_brand     ON catalog_products (brand_slug);
	CREATE INDEX IF NOT EXISTS idx_catalog_material  ON catalog_products (material);
	CREATE INDEX IF NOT EXISTS idx_catalog_thickness ON catalog_products (thickness_mm_max);
	CREATE INDEX IF NOT EXISTS idx_catalog_length    ON catalog_products (length_cm_max);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveAll replaces the stored catalog in one transaction.
func (s *PostgresStore) SaveAll(ctx context.Context, products []domain.NormalizedProduct) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM catalog_products`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_products
			(slug, brand_slug, brand_name, material, thickness_mm_max, length_cm_max, price_min, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, product := range products {
		document, marshalErr := json.Marshal(product)
		if marshalErr != nil {
			return fmt.Errorf("encoding %s: %w", product.Slug, marshalErr)
		}
		if _, err = stmt.ExecContext(ctx,
			product.Slug, product.BrandSlug, product.BrandName, product.Material,
			product.ThicknessMmMax, product.LengthCmMax, product.PriceMin, document,
		); err != nil {
			return fmt.Errorf("inserting %s: %w", product.Slug, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns products matching the filter in insertion order.
func (s *PostgresStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.NormalizedProduct, error) {
	query := `SELECT document FROM catalog_products WHERE 1=1`
	var params []interface{}

	next := func() string { return fmt.Sprintf("$%d", len(params)) }

	if filter.BrandSlug != "" {
		params = append(params, filter.BrandSlug)
		query += " AND brand_slug = " + next()
	}
	if filter.Material != "" {
		params = append(params, filter.Material)
		query += " AND LOWER(material) = LOWER(" + next() + ")"
	}
	if filter.MinThicknessMm > 0 {
		params = append(params, filter.MinThicknessMm)
		query += " AND thickness_mm_max >= " + next()
	}
	if filter.MaxLengthCm > 0 {
		params = append(params, filter.MaxLengthCm)
		query += " AND length_cm_max > 0 AND length_cm_max <= " + next()
	}
	query += " ORDER BY saved_at, slug"
	if filter.Limit > 0 {
		params = append(params, filter.Limit)
		query += " LIMIT " + next()
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []domain.NormalizedProduct
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		var product domain.NormalizedProduct
		if err := json.Unmarshal(document, &product); err != nil {
			return nil, fmt.Errorf("decoding product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// GetBySlug returns one product, or ErrProductNotFound.
func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (*domain.NormalizedProduct, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM catalog_products WHERE slug = $1`, slug).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", slug, err)
	}

	var product domain.NormalizedProduct
	if err := json.Unmarshal(document, &product); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", slug, err)
	}
	return &product, nil
}

// Brands summarizes the stored catalog per brand, ordered by slug.
func (s *PostgresStore) Brands(ctx context.Context) ([]domain.BrandSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT brand_slug, MIN(brand_name), COUNT(*)
		FROM catalog_products
		GROUP BY brand_slug
		ORDER BY brand_slug
	`)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.BrandSummary
	for rows.Next() {
		var summary domain.BrandSummary
		if err := rows.Scan(&summary.Slug, &summary.Name, &summary.ProductCount); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		brands = append(brands, summary)
	}
	return brands, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

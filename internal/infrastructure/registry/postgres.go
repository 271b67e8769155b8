package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/matfinder/backend/internal/domain"
)

// PostgresRegistry persists per-brand scrape hashes so change detection
// survives across pipeline runs.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry opens the connection, pings it, and ensures the
// backing table exists.
func NewPostgresRegistry(connStr string) (*PostgresRegistry, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	registry := &PostgresRegistry{db: db}
	if err := registry.createTable(); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *PostgresRegistry) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS scrape_hashes (
		brand_slug  TEXT PRIMARY KEY,
		hash        TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
	);`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Get returns the recorded hash for a brand, or ErrRegistryMiss.
func (r *PostgresRegistry) Get(ctx context.Context, key string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT hash FROM scrape_hashes WHERE brand_slug = $1`, key).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrRegistryMiss
	}
	if err != nil {
		return "", fmt.Errorf("reading hash for %s: %w", key, err)
	}
	return hash, nil
}

// Set upserts the hash for a brand.
func (r *PostgresRegistry) Set(ctx context.Context, key, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scrape_hashes (brand_slug, hash, recorded_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (brand_slug) DO UPDATE SET hash = $2, recorded_at = NOW()
	`, key, hash)
	if err != nil {
		return fmt.Errorf("recording hash for %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}

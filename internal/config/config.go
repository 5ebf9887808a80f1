// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Storage backend: "memory" (demo mode, optional JSON snapshot file)
	// or "postgres" (production mode).
	StoreDriver  string
	SnapshotPath string // memory driver only; empty disables snapshots

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible sessions + catalog cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Bleve product search index path. Empty means in-memory index.
	SearchIndexPath string

	// S3-compatible object storage for product spec sheets and SDS documents.
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// SMTP for order confirmations and inquiry notifications.
	// Empty host means emails are logged instead of sent.
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Chemistry enrichment provider: "pubchem" (default) or "cactus".
	EnrichProvider string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreDriver:  envOrDefault("STORE_DRIVER", DriverMemory),
		SnapshotPath: os.Getenv("SNAPSHOT_PATH"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "chemtrade"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "chemtrade"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SearchIndexPath: os.Getenv("SEARCH_INDEX_PATH"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "chemtrade-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "chemtrade-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envOrDefault("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom: envOrDefault("SMTP_FROM", "orders@chemtrade.local"),

		EnrichProvider: envOrDefault("ENRICH_PROVIDER", "pubchem"),
	}

	if cfg.StoreDriver != DriverMemory && cfg.StoreDriver != DriverPostgres {
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			DriverMemory, DriverPostgres, cfg.StoreDriver)
	}

	if cfg.Env == "production" {
		if cfg.StoreDriver == DriverPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// SMTPAddr returns the SMTP server address (host:port).
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%s", c.SMTPHost, c.SMTPPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

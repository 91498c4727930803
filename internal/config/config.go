package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// BackendPostgres stores nodes as rows in Postgres.
	BackendPostgres = "postgres"
	// BackendFilesystem maps nodes onto a directory tree of markdown files.
	BackendFilesystem = "filesystem"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// StorageBackend selects where nodes live: "postgres" or "filesystem".
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	// DataDir is the root directory for the filesystem backend.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LOREKEEP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("LOREKEEP_DATABASE_URL is required for the postgres backend")
		}
	case BackendFilesystem:
		if c.DataDir == "" {
			return fmt.Errorf("LOREKEEP_DATA_DIR is required for the filesystem backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

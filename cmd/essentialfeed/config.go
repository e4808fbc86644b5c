package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

const (
	storeMemory   = "memory"
	storeFile     = "file"
	storeSQLite   = "sqlite"
	storePostgres = "postgres"
	storeDynamoDB = "dynamodb"
)

// config is read from the YAML file named by FEED_CONFIG_FILE, if any, and then
// overridden by environment variables.
type config struct {
	FeedURL string `yaml:"feed_url" env:"FEED_URL"`

	Store            string `yaml:"store" env:"FEED_STORE"`
	StorePath        string `yaml:"store_path" env:"FEED_STORE_PATH"`
	PostgresDSN      string `yaml:"postgres_dsn" env:"FEED_POSTGRES_DSN"`
	DynamoDBTable    string `yaml:"dynamodb_table" env:"FEED_DYNAMODB_TABLE"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint" env:"FEED_DYNAMODB_ENDPOINT"`
	DynamoDBTTL      bool   `yaml:"dynamodb_ttl" env:"FEED_DYNAMODB_TTL"`

	MaxCacheAge      time.Duration `yaml:"max_cache_age" env:"FEED_MAX_CACHE_AGE"`
	RefreshInterval  time.Duration `yaml:"refresh_interval" env:"FEED_REFRESH_INTERVAL"`
	ValidateInterval time.Duration `yaml:"validate_interval" env:"FEED_VALIDATE_INTERVAL"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env:"FEED_REQUEST_TIMEOUT"`

	LogLevel slog.Level `yaml:"log_level" env:"FEED_LOG_LEVEL"`
}

func defaultConfig() config {
	return config{
		Store:            storeFile,
		StorePath:        "feed.store",
		MaxCacheAge:      essentialfeed.DefaultMaxCacheAge,
		RefreshInterval:  15 * time.Minute,
		ValidateInterval: time.Hour,
		RequestTimeout:   30 * time.Second,
		LogLevel:         slog.LevelInfo,
	}
}

func loadConfig() (config, error) {
	c := defaultConfig()

	if path := os.Getenv("FEED_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}

	return c, c.validate()
}

func (c config) validate() error {
	var errs []error

	if c.FeedURL == "" {
		errs = append(errs, errors.New("feed url is required"))
	}

	switch c.Store {
	case storeMemory:
	case storeFile, storeSQLite:
		if c.StorePath == "" {
			errs = append(errs, fmt.Errorf("store path is required for %s store", c.Store))
		}
	case storePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres store"))
		}
	case storeDynamoDB:
		if c.DynamoDBTable == "" {
			errs = append(errs, errors.New("dynamodb table is required for dynamodb store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	if c.RefreshInterval <= 0 || c.ValidateInterval <= 0 {
		errs = append(errs, errors.New("refresh and validate intervals must be positive"))
	}

	return errors.Join(errs...)
}

// Package config assembles runtime settings from an optional TOML file, a
// .env file and the process environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	DefaultConfigPath = "tracker.toml"
)

type Config struct {
	Port         string   `toml:"port"`
	HoldingsPath string   `toml:"holdings_path"`
	Store        string   `toml:"store"`
	DatabaseURL  string   `toml:"database_url"`
	LogLevel     string   `toml:"log_level"`
	GinMode      string   `toml:"gin_mode"`
	PriceAPI     PriceAPI `toml:"price_api"`
}

type PriceAPI struct {
	URL     string `toml:"url"`
	Key     string `toml:"key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the configured timeout, falling back to 10s.
func (p PriceAPI) GetTimeout() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func Default() Config {
	return Config{
		Port:         "8080",
		HoldingsPath: "portfolio.json",
		Store:        StoreFile,
		LogLevel:     "info",
		GinMode:      "release",
		PriceAPI: PriceAPI{
			URL:     "https://api.coingecko.com/api/v3",
			Timeout: "10s",
		},
	}
}

// Load reads .env if present, then the TOML file named by TRACKER_CONFIG (or
// tracker.toml), then applies environment overrides. A missing TOML file is
// not an error.
func Load() (Config, error) {
	// Load .env file if it exists, but don't fail if it's missing
	_ = godotenv.Load()

	path := os.Getenv("TRACKER_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFile returns Default overlaid with the TOML file at path.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Port, "PORT")
	setFromEnv(&c.HoldingsPath, "HOLDINGS_PATH")
	setFromEnv(&c.Store, "STORE")
	setFromEnv(&c.DatabaseURL, "DATABASE_URL")
	setFromEnv(&c.LogLevel, "LOG_LEVEL")
	setFromEnv(&c.GinMode, "GIN_MODE")
	setFromEnv(&c.PriceAPI.URL, "PRICE_API_URL")
	setFromEnv(&c.PriceAPI.Key, "PRICE_API_KEY")
	setFromEnv(&c.PriceAPI.Timeout, "PRICE_API_TIMEOUT")
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin_mode %q", c.GinMode)
	}
	switch c.Store {
	case StoreFile:
		if c.HoldingsPath == "" {
			return errors.New("holdings_path is required for the file store")
		}
	case StorePostgres, StoreSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the %s store", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

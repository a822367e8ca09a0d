// Package config loads the client configuration from a YAML file and the
// environment. Priority: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default upstream endpoints. The metadata API is normally consumed through
// the backend's reverse proxy; the direct URL is kept for overflow fetches.
const (
	DefaultBackendURL  = "https://wep-comic-backend.onrender.com"
	DefaultMangaDexURL = "https://api.mangadex.org"
	DefaultConsumetURL = "https://api.consumet.org/manga"
)

// Config holds all configuration for the application
type Config struct {
	// Backend is the first-party WepComic backend
	Backend struct {
		URL string `yaml:"url"`
	} `yaml:"backend"`

	// MangaDex is the external metadata API (direct URL, used where the
	// backend proxy is bypassed)
	MangaDex struct {
		URL string `yaml:"url"`
	} `yaml:"mangadex"`

	// Consumet is the scraping provider gateway
	Consumet struct {
		URL string `yaml:"url"`
	} `yaml:"consumet"`

	// Logging configuration
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	// Paths for local persistence
	Paths struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"paths"`
}

// Load reads configuration from an optional .env file, the given YAML file
// (if it exists) and environment variables.
func Load(configFile string) (*Config, error) {
	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Backend.URL = DefaultBackendURL
	cfg.MangaDex.URL = DefaultMangaDexURL
	cfg.Consumet.URL = DefaultConsumetURL
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Paths.DataDir = defaultDataDir()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			fileCfg := &Config{}
			if err := yaml.Unmarshal(data, fileCfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			mergeConfigs(cfg, fileCfg)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required configuration values.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	return nil
}

// DatabasePath returns the sqlite file used for local persistence.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "wepcomic.db")
}

// mergeConfigs copies non-zero values from src into dst.
func mergeConfigs(dst, src *Config) {
	if src.Backend.URL != "" {
		dst.Backend.URL = src.Backend.URL
	}
	if src.MangaDex.URL != "" {
		dst.MangaDex.URL = src.MangaDex.URL
	}
	if src.Consumet.URL != "" {
		dst.Consumet.URL = src.Consumet.URL
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Paths.DataDir != "" {
		dst.Paths.DataDir = src.Paths.DataDir
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("WEPCOMIC_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("WEPCOMIC_MANGADEX_URL"); v != "" {
		cfg.MangaDex.URL = v
	}
	if v := os.Getenv("WEPCOMIC_CONSUMET_URL"); v != "" {
		cfg.Consumet.URL = v
	}
	if v := os.Getenv("WEPCOMIC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WEPCOMIC_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("WEPCOMIC_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wepcomic"
	}
	return filepath.Join(home, ".wepcomic")
}

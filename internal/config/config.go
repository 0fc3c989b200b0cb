// Package config loads the front end configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// FileConfig is the front end configuration.
type FileConfig struct {
	Addr     string `yaml:"addr"`
	LogPath  string `yaml:"logPath"`
	DBPath   string `yaml:"dbPath"`
	LogLevel string `yaml:"logLevel"`

	DataURL            string `yaml:"dataURL"`
	DataTimeoutSeconds int    `yaml:"dataTimeoutSeconds"`

	TMDBAPIKey         string `yaml:"tmdbApiKey"`
	TMDBBaseURL        string `yaml:"tmdbBaseURL"`
	TMDBImageBase      string `yaml:"tmdbImageBase"`
	TMDBLanguage       string `yaml:"tmdbLanguage"`
	TMDBTimeoutSeconds int    `yaml:"tmdbTimeoutSeconds"`
	FetchConcurrency   int    `yaml:"fetchConcurrency"`

	RedisAddr         string `yaml:"redisAddr"`
	RedisPassword     string `yaml:"redisPassword"`
	AuthRateLimit     int    `yaml:"authRateLimit"`
	AuthWindowSeconds int    `yaml:"authWindowSeconds"`
	AMQPURL           string `yaml:"amqpURL"`
	SecureCookies     bool   `yaml:"secureCookies"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() FileConfig {
	return FileConfig{
		Addr:               ":8080",
		DBPath:             "popcornhub.db",
		LogLevel:           "info",
		DataURL:            "http://localhost:5001",
		DataTimeoutSeconds: int(docstore.DefaultTimeout / time.Second),
		TMDBBaseURL:        tmdb.DefaultBaseURL,
		TMDBImageBase:      tmdb.DefaultImageBase,
		TMDBLanguage:       tmdb.DefaultLanguage,
		TMDBTimeoutSeconds: int(tmdb.DefaultTimeout / time.Second),
		FetchConcurrency:   8,
		AuthRateLimit:      10,
		AuthWindowSeconds:  60,
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (FileConfig, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("POPCORNHUB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("POPCORNHUB_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("POPCORNHUB_LOG"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("POPCORNHUB_DATA_URL"); v != "" {
		cfg.DataURL = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.TMDBAPIKey = v
	}
	if v := os.Getenv("TMDB_LANGUAGE"); v != "" {
		cfg.TMDBLanguage = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.AMQPURL = v
	}
	if v := os.Getenv("POPCORNHUB_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}
	if v := os.Getenv("POPCORNHUB_AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuthRateLimit = n
		}
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DataTimeout is the data service request timeout.
func (c FileConfig) DataTimeout() time.Duration {
	return time.Duration(c.DataTimeoutSeconds) * time.Second
}

// TMDB returns the metadata client configuration.
func (c FileConfig) TMDB() tmdb.Config {
	return tmdb.Config{
		BaseURL:   c.TMDBBaseURL,
		ImageBase: c.TMDBImageBase,
		APIKey:    c.TMDBAPIKey,
		Language:  c.TMDBLanguage,
		Timeout:   time.Duration(c.TMDBTimeoutSeconds) * time.Second,
	}
}

// AuthWindow is the rate limit window for login and signup.
func (c FileConfig) AuthWindow() time.Duration {
	return time.Duration(c.AuthWindowSeconds) * time.Second
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return errors.New("config: addr is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("config: dbPath is required")
	}
	u, err := url.Parse(cfg.DataURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: dataURL must be an http(s) URL, got %q", cfg.DataURL)
	}
	if cfg.DataTimeoutSeconds <= 0 {
		return errors.New("config: dataTimeoutSeconds must be > 0")
	}
	if cfg.TMDBTimeoutSeconds <= 0 {
		return errors.New("config: tmdbTimeoutSeconds must be > 0")
	}
	if cfg.FetchConcurrency <= 0 {
		return errors.New("config: fetchConcurrency must be > 0")
	}
	if cfg.RedisAddr != "" && (cfg.AuthRateLimit <= 0 || cfg.AuthWindowSeconds <= 0) {
		return errors.New("config: authRateLimit and authWindowSeconds must be > 0 when redisAddr is set")
	}
	return nil
}

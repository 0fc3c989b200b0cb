package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DataURL != "http://localhost:5001" {
		t.Errorf("dataURL = %q", cfg.DataURL)
	}
	if cfg.DataTimeout() != 5*time.Second {
		t.Errorf("data timeout = %v, want 5s", cfg.DataTimeout())
	}
	if got := cfg.TMDB(); got.Language != "fr-FR" || got.Timeout != 5*time.Second {
		t.Errorf("tmdb config = %+v", got)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("POPCORNHUB_SECURE_COOKIES", "true")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":9090"
dataURL: "http://data:5001"
tmdbApiKey: "from-file"
tmdbLanguage: "en-US"
authRateLimit: 3
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.TMDBAPIKey != "from-env" {
		t.Errorf("tmdbApiKey = %q, want from-env", cfg.TMDBAPIKey)
	}
	if cfg.TMDBLanguage != "en-US" {
		t.Errorf("tmdbLanguage = %q, want en-US", cfg.TMDBLanguage)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.AuthRateLimit != 3 {
		t.Errorf("redis = %q limit %d", cfg.RedisAddr, cfg.AuthRateLimit)
	}
	if !cfg.SecureCookies {
		t.Error("secureCookies = false, want true")
	}
	if cfg.AuthWindowSeconds != 60 {
		t.Errorf("authWindowSeconds = %d, want default 60", cfg.AuthWindowSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*FileConfig)
	}{
		{"empty addr", func(c *FileConfig) { c.Addr = "" }},
		{"bad data url", func(c *FileConfig) { c.DataURL = "localhost:5001" }},
		{"zero timeout", func(c *FileConfig) { c.DataTimeoutSeconds = 0 }},
		{"zero concurrency", func(c *FileConfig) { c.FetchConcurrency = 0 }},
		{"redis without limit", func(c *FileConfig) { c.RedisAddr = "localhost:6379"; c.AuthRateLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Errorf("validateConfig() expected error")
			}
		})
	}
}

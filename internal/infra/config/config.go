package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// SearchConfig selects and configures the web search provider.
type SearchConfig struct {
	Provider    string        `yaml:"provider"` // "duckduckgo" or "searxng"
	SearXNGURL  string        `yaml:"searxng_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// FetchConfig holds web_fetch settings.
type FetchConfig struct {
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRedirects int           `yaml:"max_redirects"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Search: SearchConfig{
			Provider:    "duckduckgo",
			SearXNGURL:  "http://localhost:6060",
			HTTPTimeout: 15 * time.Second,
		},
		Fetch: FetchConfig{
			MaxBodyBytes: 1024 * 1024, // 1 MiB
			Timeout:      30 * time.Second,
			MaxRedirects: 5,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides.
// A missing file is not an error: defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps WEBSEEK_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBSEEK_SEARCH_PROVIDER"); v != "" {
		cfg.Search.Provider = v
	}
	if v := os.Getenv("WEBSEEK_SEARCH_SEARXNG_URL"); v != "" {
		cfg.Search.SearXNGURL = v
	}
	if v := os.Getenv("WEBSEEK_SEARCH_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Search.HTTPTimeout = d
		}
	}
	if v := os.Getenv("WEBSEEK_FETCH_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Fetch.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("WEBSEEK_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Fetch.Timeout = d
		}
	}
	if v := os.Getenv("WEBSEEK_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("WEBSEEK_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("WEBSEEK_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("WEBSEEK_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("WEBSEEK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateSearch(cfg, ve)
	validateFetch(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

var validSearchProviders = map[string]bool{
	"duckduckgo": true,
	"searxng":    true,
}

func validateSearch(cfg *Config, ve *ValidationError) {
	if !validSearchProviders[cfg.Search.Provider] {
		ve.Add("search.provider %q is invalid (want: duckduckgo, searxng)", cfg.Search.Provider)
	}
	if cfg.Search.Provider == "searxng" {
		if cfg.Search.SearXNGURL == "" {
			ve.Add("search.searxng_url must not be empty when search.provider is searxng")
		} else if u, err := url.Parse(cfg.Search.SearXNGURL); err != nil || u.Scheme == "" || u.Host == "" {
			ve.Add("search.searxng_url %q is not a valid URL", cfg.Search.SearXNGURL)
		}
	}
	if cfg.Search.HTTPTimeout <= 0 {
		ve.Add("search.http_timeout must be > 0")
	}
}

func validateFetch(cfg *Config, ve *ValidationError) {
	if cfg.Fetch.MaxBodyBytes <= 0 {
		ve.Add("fetch.max_body_bytes must be > 0")
	}
	if cfg.Fetch.Timeout <= 0 {
		ve.Add("fetch.timeout must be > 0")
	}
	if cfg.Fetch.MaxRedirects < 0 {
		ve.Add("fetch.max_redirects must be >= 0")
	}
}

var validLogLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is invalid (want: debug, info, warn, error)", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is invalid (want: text, json)", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is invalid (want: noop, stdout)", cfg.Tracer.Exporter)
	}
}

package config

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("Validate(Defaults()) = %v, want nil", err)
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Provider = "bing"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "search.provider") {
		t.Errorf("error should mention search.provider: %v", err)
	}
}

func TestValidateSearXNGMissingURL(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Provider = "searxng"
	cfg.Search.SearXNGURL = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "searxng_url") {
		t.Errorf("error should mention searxng_url: %v", err)
	}
}

func TestValidateSearXNGBadURL(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Provider = "searxng"
	cfg.Search.SearXNGURL = "not a url"

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for malformed searxng_url")
	}
}

func TestValidateDuckDuckGoIgnoresSearXNGURL(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Provider = "duckduckgo"
	cfg.Search.SearXNGURL = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("searxng_url should not be required for duckduckgo: %v", err)
	}
}

func TestValidateNonPositiveTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Search.HTTPTimeout = 0

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for zero timeout")
	}
}

func TestValidateFetchLimits(t *testing.T) {
	cfg := Defaults()
	cfg.Fetch.MaxBodyBytes = 0

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for zero max_body_bytes")
	}

	cfg = Defaults()
	cfg.Fetch.MaxRedirects = -1
	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for negative max_redirects")
	}
}

func TestValidateLoggerLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logger.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "logger.level") {
		t.Errorf("error should mention logger.level: %v", err)
	}
}

func TestValidateLoggerFormat(t *testing.T) {
	cfg := Defaults()
	cfg.Logger.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for unknown format")
	}
}

func TestValidateTracerExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Tracer.Enabled = true
	cfg.Tracer.Exporter = "jaeger"

	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for unsupported exporter")
	}

	// Disabled tracer skips exporter validation.
	cfg.Tracer.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled tracer should not validate exporter: %v", err)
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Provider = "bing"
	cfg.Search.HTTPTimeout = 0
	cfg.Logger.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 3 {
		t.Errorf("expected 3 accumulated errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

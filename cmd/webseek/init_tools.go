package main

import (
	"fmt"
	"log/slog"

	"webseek/internal/adapter/tool"
	"webseek/internal/infra/config"
)

// newSearchProvider creates the search backend selected by config.
func newSearchProvider(cfg *config.Config, log *slog.Logger) (tool.SearchProvider, error) {
	switch cfg.Search.Provider {
	case "duckduckgo":
		return tool.NewDuckDuckGoProvider(cfg.Search.HTTPTimeout, log), nil
	case "searxng":
		return tool.NewSearXNGProvider(cfg.Search.SearXNGURL, cfg.Search.HTTPTimeout, log), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}

// buildRegistry creates the tool registry with every tool the binary ships.
func buildRegistry(cfg *config.Config, log *slog.Logger) (*tool.Registry, error) {
	provider, err := newSearchProvider(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}

	reg := tool.NewRegistry()

	if err := reg.Register(tool.NewWebSearchTool(provider, log)); err != nil {
		return nil, fmt.Errorf("register web_search: %w", err)
	}
	if err := reg.Register(tool.NewWebFetchTool(cfg.Fetch.MaxBodyBytes, cfg.Fetch.Timeout, cfg.Fetch.MaxRedirects, log)); err != nil {
		return nil, fmt.Errorf("register web_fetch: %w", err)
	}

	return reg, nil
}

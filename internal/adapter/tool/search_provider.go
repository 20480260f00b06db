package tool

import (
	"context"

	"webseek/internal/domain"
)

// Safe-search levels accepted by search providers.
const (
	SafeSearchOff      = "off"
	SafeSearchModerate = "moderate"
	SafeSearchStrict   = "strict"
)

// SearchOptions carries per-call provider settings.
type SearchOptions struct {
	// MaxResults caps how many results the provider returns. Zero means
	// provider default.
	MaxResults int
	// SafeSearch is one of the SafeSearch* levels. Empty means off.
	SafeSearch string
}

// SearchProvider abstracts a web search engine. Implementations must
// return results in the order the engine ranked them and honor ctx
// cancellation on in-flight requests.
type SearchProvider interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]domain.SearchResult, error)

	// Name is the human-readable engine name (e.g. "DuckDuckGo"). It
	// appears verbatim in user-facing tool output.
	Name() string
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"webseek/internal/domain"
)

const maxSearchBodySize = 512 * 1024 // 512KB

// searxngResponse models the relevant portion of the SearXNG JSON response.
type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Engine  string `json:"engine"`
	} `json:"results"`
	NumberOfResults int `json:"number_of_results"`
}

// SearXNGProvider searches the web via a SearXNG instance.
type SearXNGProvider struct {
	client      *http.Client
	instanceURL string
	logger      *slog.Logger
}

// NewSearXNGProvider creates a search provider backed by a SearXNG
// instance. A zero timeout falls back to 15s.
func NewSearXNGProvider(instanceURL string, timeout time.Duration, logger *slog.Logger) *SearXNGProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SearXNGProvider{
		client:      &http.Client{Timeout: timeout},
		instanceURL: strings.TrimRight(instanceURL, "/"),
		logger:      logger,
	}
}

// Name returns the engine name shown in tool output.
func (p *SearXNGProvider) Name() string { return "SearXNG" }

func (p *SearXNGProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]domain.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.instanceURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("pageno", "1")
	q.Set("safesearch", searxngSafeSearch(opts.SafeSearch))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var searxResp searxngResponse
	if err := json.Unmarshal(body, &searxResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(searxResp.Results))
	for _, r := range searxResp.Results {
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			break
		}
		results = append(results, domain.SearchResult{
			Title: r.Title,
			Href:  r.URL,
			Body:  r.Content,
		})
	}

	p.logger.Debug("searxng search completed", "query", query, "results", len(results))
	return results, nil
}

// searxngSafeSearch maps a SafeSearch level to the safesearch query
// parameter.
func searxngSafeSearch(level string) string {
	switch level {
	case SafeSearchStrict:
		return "2"
	case SafeSearchModerate:
		return "1"
	default:
		return "0"
	}
}

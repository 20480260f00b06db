package tool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	xhtml "golang.org/x/net/html"

	"webseek/internal/domain"
)

const (
	duckDuckGoEndpoint  = "https://html.duckduckgo.com/html/"
	duckDuckGoUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// maxDuckDuckGoBody bounds how much of the HTML response is read.
	maxDuckDuckGoBody = 1 << 20 // 1MB
)

// DuckDuckGoProvider searches the web through DuckDuckGo's HTML endpoint.
// The endpoint needs no API key; results are scraped from the returned
// document.
type DuckDuckGoProvider struct {
	client   *http.Client
	endpoint string
	logger   *slog.Logger
}

// NewDuckDuckGoProvider creates a DuckDuckGo search provider.
func NewDuckDuckGoProvider(timeout time.Duration, logger *slog.Logger) *DuckDuckGoProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DuckDuckGoProvider{
		client:   &http.Client{Timeout: timeout},
		endpoint: duckDuckGoEndpoint,
		logger:   logger,
	}
}

// Name returns the engine name shown in tool output.
func (p *DuckDuckGoProvider) Name() string { return "DuckDuckGo" }

// Search posts the query to the HTML endpoint and scrapes result blocks
// from the response document.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]domain.SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)
	form.Set("kl", "us-en")
	form.Set("kp", duckDuckGoSafeSearch(opts.SafeSearch))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", duckDuckGoUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search failed (HTTP %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDuckDuckGoBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxDuckDuckGoBody {
		return nil, fmt.Errorf("response exceeded %d bytes", maxDuckDuckGoBody)
	}

	doc, err := xhtml.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := extractDuckDuckGoResults(doc)
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}

	p.logger.Debug("duckduckgo search completed", "query", query, "results", len(results))
	return results, nil
}

// duckDuckGoSafeSearch maps a SafeSearch level to the kp form parameter.
func duckDuckGoSafeSearch(level string) string {
	switch level {
	case SafeSearchStrict:
		return "1"
	case SafeSearchModerate:
		return "-1"
	default:
		return "-2"
	}
}

// extractDuckDuckGoResults walks the parsed document collecting
// div.result blocks, deduplicated by URL in document order. Sponsored
// blocks (result--ad) are skipped.
func extractDuckDuckGoResults(doc *xhtml.Node) []domain.SearchResult {
	var results []domain.SearchResult
	seen := make(map[string]struct{})

	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "div" && nodeHasClass(n, "result") && !nodeHasClass(n, "result--ad") {
			if r, ok := buildDuckDuckGoResult(n); ok {
				if _, dup := seen[r.Href]; !dup {
					seen[r.Href] = struct{}{}
					results = append(results, r)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

// buildDuckDuckGoResult pulls title, URL, and snippet out of one result
// block. Blocks missing a usable title or URL are skipped.
func buildDuckDuckGoResult(node *xhtml.Node) (domain.SearchResult, bool) {
	var title, href, snippet, fallbackHref string

	var inspect func(*xhtml.Node)
	inspect = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			if href == "" && n.Data == "a" && nodeHasClass(n, "result__a") {
				href = cleanResultURL(nodeAttr(n, "href"))
				if title == "" {
					title = nodeText(n)
				}
			}
			if snippet == "" && nodeHasClass(n, "result__snippet") {
				snippet = nodeText(n)
			}
			if fallbackHref == "" && nodeHasClass(n, "result__url") {
				fallbackHref = nodeText(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			inspect(c)
		}
	}
	inspect(node)

	if href == "" && fallbackHref != "" {
		// result__url holds display text like "example.com/docs".
		if !strings.Contains(fallbackHref, "://") {
			fallbackHref = "https://" + fallbackHref
		}
		href = cleanResultURL(fallbackHref)
	}
	if href == "" || title == "" {
		return domain.SearchResult{}, false
	}
	return domain.SearchResult{Title: title, Href: href, Body: snippet}, true
}

// cleanResultURL normalizes a result link. DuckDuckGo wraps targets in a
// redirect carrying the real URL escaped in the uddg parameter; direct
// links pass through. Anything that is not plain http(s) with a host is
// rejected.
func cleanResultURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		parsed, err = url.Parse(target)
		if err != nil {
			return ""
		}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	if parsed.Hostname() == "" {
		return ""
	}

	parsed.Fragment = ""
	return parsed.String()
}

// nodeText returns the whitespace-collapsed text content of a node tree.
// Line breaks collapse to single spaces.
func nodeText(n *xhtml.Node) string {
	var b strings.Builder
	var collect func(*xhtml.Node)
	collect = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.TextNode:
			b.WriteString(n.Data)
		case xhtml.ElementNode:
			if n.Data == "br" {
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func nodeHasClass(n *xhtml.Node, class string) bool {
	for _, part := range strings.Fields(nodeAttr(n, "class")) {
		if part == class {
			return true
		}
	}
	return false
}

func nodeAttr(n *xhtml.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

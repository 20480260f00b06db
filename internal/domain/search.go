package domain

// SearchResult is a single web search hit as returned by a provider.
type SearchResult struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

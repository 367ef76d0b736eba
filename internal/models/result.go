package models

// SearchResult is a single search hit.
type SearchResult struct {
	Snippet *Snippet `json:"snippet"`
	Score   float64  `json:"score"`
	Rank    int      `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	Fuzzy     bool            `json:"fuzzy,omitempty"`
	// Suggestion is a respelled query, set only when nothing matched.
	Suggestion string `json:"suggestion,omitempty"`
}

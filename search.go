package docsnap

import "context"

// Search result limits.
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 20
)

// ClampLimit maps a requested result count into [1, MaxSearchLimit].
// Zero means no limit was given and selects DefaultSearchLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultSearchLimit
	case limit < 1:
		return 1
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

// SearchResult is one ranked hit.
type SearchResult struct {
	Route            string   `json:"route"`
	URL              string   `json:"url,omitempty"`
	Title            string   `json:"title"`
	Score            float64  `json:"score"`
	Snippet          string   `json:"snippet"`
	MatchingHeadings []string `json:"matchingHeadings,omitempty"`
}

// Key returns the URL when set, otherwise the route.
func (r *SearchResult) Key() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Route
}

// Indexer turns the assembled document set into exported index blobs at
// build time. Indexers run one after another once every page is assembled.
type Indexer interface {
	Name() string
	Initialize(ctx context.Context) error
	IndexDocuments(ctx context.Context, docs map[string]*Document) error

	// Finalize returns the indexer's export. Keys must not collide with
	// those of other indexers in the same build.
	Finalize(ctx context.Context) (map[string]string, error)
}

// Searcher answers ranked queries at serve time. Initialize is called once
// with the loaded snapshot; Search must be safe for concurrent use afterwards.
type Searcher interface {
	Name() string
	Initialize(ctx context.Context, snap *Snapshot) error

	// Search returns at most limit results ordered by descending score.
	// The limit has already been clamped by the caller.
	Search(ctx context.Context, query string, limit int) ([]*SearchResult, error)
}

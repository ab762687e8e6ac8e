package search

import (
	"context"
	"sort"

	"github.com/fwojciec/docsnap"
)

// Ensure Engine implements interface.
var _ docsnap.Searcher = (*Engine)(nil)

// Engine answers queries from an imported index export.
type Engine struct {
	idx  *Index
	docs map[string]*docsnap.Document
}

// NewEngine returns an uninitialized Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Name returns the searcher kind.
func (e *Engine) Name() string {
	return docsnap.SearcherNative
}

// Initialize imports the snapshot's index export.
func (e *Engine) Initialize(_ context.Context, snap *docsnap.Snapshot) error {
	if snap == nil {
		return docsnap.Errorf(docsnap.EINVALID, "snapshot required")
	}
	idx := New()
	if err := idx.Import(snap.Index); err != nil {
		return err
	}
	e.idx = idx
	e.docs = snap.Docs
	return nil
}

// Search ranks documents for query.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error) {
	if e.idx == nil {
		return nil, docsnap.Errorf(docsnap.EINTERNAL, "search engine not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Rank(e.idx, e.docs, query, limit), nil
}

// Rank queries idx for 3*limit hits per field and merges them into at
// most limit results. A field contributes (n-pos)/n times its weight to
// every document at position pos of its n hits; contributions add up
// across fields. Ties are broken by route.
func Rank(idx *Index, docs map[string]*docsnap.Document, query string, limit int) []*docsnap.SearchResult {
	if limit <= 0 {
		return []*docsnap.SearchResult{}
	}

	scores := make(map[string]float64)
	for _, hits := range idx.Search(query, 3*limit) {
		n := float64(len(hits.Routes))
		for pos, route := range hits.Routes {
			scores[route] += (n - float64(pos)) / n * hits.Weight
		}
	}

	routes := make([]string, 0, len(scores))
	for route := range scores {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		si, sj := scores[routes[i]], scores[routes[j]]
		if si != sj {
			return si > sj
		}
		return routes[i] < routes[j]
	})
	if len(routes) > limit {
		routes = routes[:limit]
	}

	results := make([]*docsnap.SearchResult, 0, len(routes))
	for _, route := range routes {
		results = append(results, NewResult(route, docs[route], idx, query, scores[route]))
	}
	return results
}

// NewResult builds the result for route. When the document is missing
// the title comes from the index's stored fields.
func NewResult(route string, doc *docsnap.Document, idx *Index, query string, score float64) *docsnap.SearchResult {
	r := &docsnap.SearchResult{Route: route, Score: score}
	if doc == nil {
		if s, ok := idx.Stored(route); ok {
			r.Title = s.Title
		}
		return r
	}
	r.URL = doc.URL
	r.Title = doc.Title
	r.Snippet = docsnap.Snippet(doc.Body, query)
	r.MatchingHeadings = docsnap.MatchingHeadings(doc.Headings, query, docsnap.MaxMatchingHeadings)
	return r
}

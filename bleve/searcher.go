// Package bleve provides a docsnap.Searcher backed by an in-memory bleve
// index rebuilt from the snapshot documents.
package bleve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/search"
)

// Ensure Searcher implements interface.
var _ docsnap.Searcher = (*Searcher)(nil)

// prefixBoost scales prefix matches below whole-word matches.
const prefixBoost = 0.5

// Searcher answers queries with bleve.
type Searcher struct {
	index bleve.Index
	docs  map[string]*docsnap.Document
}

// NewSearcher returns an uninitialized Searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Name returns the searcher kind.
func (s *Searcher) Name() string {
	return docsnap.SearcherBleve
}

// Initialize indexes every document of snap in memory.
func (s *Searcher) Initialize(ctx context.Context, snap *docsnap.Snapshot) error {
	if snap == nil {
		return docsnap.Errorf(docsnap.EINVALID, "snapshot required")
	}

	mapping := bleve.NewIndexMapping()
	mapping.DefaultAnalyzer = en.AnalyzerName
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return fmt.Errorf("create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for route, doc := range snap.Docs {
		if err := ctx.Err(); err != nil {
			_ = index.Close()
			return err
		}
		if err := batch.Index(route, fields(doc)); err != nil {
			_ = index.Close()
			return fmt.Errorf("index %s: %w", route, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("index batch: %w", err)
	}

	s.index = index
	s.docs = snap.Docs
	return nil
}

func fields(doc *docsnap.Document) map[string]any {
	headings := make([]string, len(doc.Headings))
	for i, h := range doc.Headings {
		headings[i] = h.Text
	}
	return map[string]any{
		"title":       doc.Title,
		"headings":    strings.Join(headings, " "),
		"description": doc.Description,
		"content":     doc.Body,
	}
}

// Search runs a disjunction of per-field match and prefix queries boosted
// by the field weights.
func (s *Searcher) Search(ctx context.Context, q string, limit int) ([]*docsnap.SearchResult, error) {
	if s.index == nil {
		return nil, docsnap.Errorf(docsnap.EINTERNAL, "bleve searcher not initialized")
	}

	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 || limit <= 0 {
		return []*docsnap.SearchResult{}, nil
	}

	var queries []query.Query
	for _, f := range search.Fields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f.Name)
		mq.SetBoost(f.Weight)
		queries = append(queries, mq)

		for _, term := range terms {
			pq := bleve.NewPrefixQuery(term)
			pq.SetField(f.Name)
			pq.SetBoost(f.Weight * prefixBoost)
			queries = append(queries, pq)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	results := make([]*docsnap.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := s.docs[hit.ID]
		if doc == nil {
			continue
		}
		results = append(results, &docsnap.SearchResult{
			Route:            doc.Route,
			URL:              doc.URL,
			Title:            doc.Title,
			Score:            hit.Score,
			Snippet:          docsnap.Snippet(doc.Body, q),
			MatchingHeadings: docsnap.MatchingHeadings(doc.Headings, q, docsnap.MaxMatchingHeadings),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Route < results[j].Route
	})
	return results, nil
}

// Close releases the index.
func (s *Searcher) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

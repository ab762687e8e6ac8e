package mock

import (
	"context"

	"github.com/fwojciec/docsnap"
)

var (
	_ docsnap.Indexer  = (*Indexer)(nil)
	_ docsnap.Searcher = (*Searcher)(nil)
)

// Indexer is a mock implementation of docsnap.Indexer.
type Indexer struct {
	NameFn           func() string
	InitializeFn     func(ctx context.Context) error
	IndexDocumentsFn func(ctx context.Context, docs map[string]*docsnap.Document) error
	FinalizeFn       func(ctx context.Context) (map[string]string, error)
}

func (i *Indexer) Name() string {
	return i.NameFn()
}

func (i *Indexer) Initialize(ctx context.Context) error {
	return i.InitializeFn(ctx)
}

func (i *Indexer) IndexDocuments(ctx context.Context, docs map[string]*docsnap.Document) error {
	return i.IndexDocumentsFn(ctx, docs)
}

func (i *Indexer) Finalize(ctx context.Context) (map[string]string, error) {
	return i.FinalizeFn(ctx)
}

// Searcher is a mock implementation of docsnap.Searcher.
type Searcher struct {
	NameFn       func() string
	InitializeFn func(ctx context.Context, snap *docsnap.Snapshot) error
	SearchFn     func(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error)
}

func (s *Searcher) Name() string {
	return s.NameFn()
}

func (s *Searcher) Initialize(ctx context.Context, snap *docsnap.Snapshot) error {
	return s.InitializeFn(ctx, snap)
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error) {
	return s.SearchFn(ctx, query, limit)
}

package search

import (
	"context"

	"github.com/fwojciec/docsnap"
)

// Ensure Indexer implements interface.
var _ docsnap.Indexer = (*Indexer)(nil)

// Indexer builds the native index at build time.
type Indexer struct {
	idx *Index
}

// NewIndexer returns a new Indexer.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// Name returns the indexer kind.
func (i *Indexer) Name() string {
	return docsnap.IndexerSearch
}

// Initialize resets the index.
func (i *Indexer) Initialize(_ context.Context) error {
	i.idx = New()
	return nil
}

// IndexDocuments adds docs in route order.
func (i *Indexer) IndexDocuments(ctx context.Context, docs map[string]*docsnap.Document) error {
	if i.idx == nil {
		return docsnap.Errorf(docsnap.EINTERNAL, "indexer not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return i.idx.AddAll(docs)
}

// Finalize exports the index.
func (i *Indexer) Finalize(_ context.Context) (map[string]string, error) {
	if i.idx == nil {
		return nil, docsnap.Errorf(docsnap.EINTERNAL, "indexer not initialized")
	}
	return i.idx.Export()
}

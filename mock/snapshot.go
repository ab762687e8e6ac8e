package mock

import (
	"context"

	"github.com/fwojciec/docsnap"
)

var (
	_ docsnap.SnapshotStore  = (*SnapshotStore)(nil)
	_ docsnap.SnapshotLoader = (*SnapshotLoader)(nil)
	_ docsnap.QueryService   = (*QueryService)(nil)
)

// SnapshotStore is a mock implementation of docsnap.SnapshotStore.
type SnapshotStore struct {
	SaveFn func(ctx context.Context, snap *docsnap.Snapshot) error
}

func (s *SnapshotStore) Save(ctx context.Context, snap *docsnap.Snapshot) error {
	return s.SaveFn(ctx, snap)
}

// SnapshotLoader is a mock implementation of docsnap.SnapshotLoader.
type SnapshotLoader struct {
	LoadFn func(ctx context.Context) (*docsnap.Snapshot, error)
}

func (l *SnapshotLoader) Load(ctx context.Context) (*docsnap.Snapshot, error) {
	return l.LoadFn(ctx)
}

// QueryService is a mock implementation of docsnap.QueryService.
type QueryService struct {
	SearchFn      func(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error)
	GetDocumentFn func(ctx context.Context, routeOrURL string) (*docsnap.Document, error)
	GetSectionFn  func(ctx context.Context, route, headingID string) (*docsnap.SectionResult, error)
}

func (s *QueryService) Search(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error) {
	return s.SearchFn(ctx, query, limit)
}

func (s *QueryService) GetDocument(ctx context.Context, routeOrURL string) (*docsnap.Document, error) {
	return s.GetDocumentFn(ctx, routeOrURL)
}

func (s *QueryService) GetSection(ctx context.Context, route, headingID string) (*docsnap.SectionResult, error) {
	return s.GetSectionFn(ctx, route, headingID)
}

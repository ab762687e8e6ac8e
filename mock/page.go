package mock

import (
	"context"

	"github.com/fwojciec/docsnap"
)

var (
	_ docsnap.PageSource     = (*PageSource)(nil)
	_ docsnap.SitemapService = (*SitemapService)(nil)
	_ docsnap.Fetcher        = (*Fetcher)(nil)
)

// PageSource is a mock implementation of docsnap.PageSource.
type PageSource struct {
	ListPagesFn func(ctx context.Context) ([]docsnap.PageRef, error)
	ReadPageFn  func(ctx context.Context, ref docsnap.PageRef) (*docsnap.Page, error)
}

func (s *PageSource) ListPages(ctx context.Context) ([]docsnap.PageRef, error) {
	return s.ListPagesFn(ctx)
}

func (s *PageSource) ReadPage(ctx context.Context, ref docsnap.PageRef) (*docsnap.Page, error) {
	return s.ReadPageFn(ctx, ref)
}

// SitemapService is a mock implementation of docsnap.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docsnap.RouteFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docsnap.RouteFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

// Fetcher is a mock implementation of docsnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

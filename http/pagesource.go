package http

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docsnap"
)

// DefaultRequestsPerSecond is the per-host fetch rate of a PageSource.
const DefaultRequestsPerSecond = 5

// Ensure PageSource implements docsnap.PageSource at compile time.
var _ docsnap.PageSource = (*PageSource)(nil)

// PageSource lists a live site's pages from its sitemaps and fetches them
// with per-host rate limiting and retries.
type PageSource struct {
	baseURL  string
	filter   *docsnap.RouteFilter
	sitemaps docsnap.SitemapService
	fetcher  docsnap.Fetcher
	limiter  *HostLimiter
	delays   []time.Duration
	logger   *slog.Logger
}

// PageSourceOption configures a PageSource.
type PageSourceOption func(*PageSource)

// WithRateLimit sets the per-host requests per second. Zero disables it.
func WithRateLimit(rps float64) PageSourceOption {
	return func(s *PageSource) {
		s.limiter = NewHostLimiter(rps)
	}
}

// WithRetryDelays sets the backoff between fetch attempts.
func WithRetryDelays(delays []time.Duration) PageSourceOption {
	return func(s *PageSource) {
		s.delays = delays
	}
}

// WithLogger reports retries to logger.
func WithLogger(logger *slog.Logger) PageSourceOption {
	return func(s *PageSource) {
		s.logger = logger
	}
}

// NewPageSource creates a PageSource for the site at baseURL.
func NewPageSource(baseURL string, sitemaps docsnap.SitemapService, fetcher docsnap.Fetcher, filter *docsnap.RouteFilter, opts ...PageSourceOption) *PageSource {
	s := &PageSource{
		baseURL:  baseURL,
		filter:   filter,
		sitemaps: sitemaps,
		fetcher:  fetcher,
		limiter:  NewHostLimiter(DefaultRequestsPerSecond),
		delays:   DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPages discovers page URLs from the sitemaps. Routes are URL paths.
func (s *PageSource) ListPages(ctx context.Context) ([]docsnap.PageRef, error) {
	urls, err := s.sitemaps.DiscoverURLs(ctx, s.baseURL, s.filter)
	if err != nil {
		return nil, err
	}

	refs := make([]docsnap.PageRef, 0, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		refs = append(refs, docsnap.PageRef{
			Route:    docsnap.NormalizeRoute(u.Path),
			Location: raw,
		})
	}
	return refs, nil
}

// ReadPage fetches one page, waiting for the host's rate limit first.
func (s *PageSource) ReadPage(ctx context.Context, ref docsnap.PageRef) (*docsnap.Page, error) {
	u, err := url.Parse(ref.Location)
	if err != nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "invalid page URL %q", ref.Location)
	}

	fetch := func(ctx context.Context) (string, error) {
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
		return s.fetcher.Fetch(ctx, ref.Location)
	}
	onRetry := func(attempt int, err error) {
		if s.logger != nil {
			s.logger.Warn("retrying page fetch", "url", ref.Location, "attempt", attempt, "err", err)
		}
	}

	html, err := fetchWithRetry(ctx, fetch, s.delays, onRetry)
	if err != nil {
		return nil, err
	}

	pageURL := ref.Location
	if s.baseURL != "" {
		pageURL = docsnap.JoinURL(siteRoot(s.baseURL), ref.Route)
	}
	return &docsnap.Page{Route: ref.Route, URL: pageURL, HTML: html}, nil
}

// siteRoot returns scheme://host of rawURL, or rawURL if it cannot be parsed.
func siteRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// Package slog provides logging decorators for docsnap services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsnap"
)

// Ensure LoggingSitemapService implements docsnap.SitemapService.
var _ docsnap.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   docsnap.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next docsnap.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation with
// the route filter applied. A discovery that yields no pages is a warning
// since it produces an empty snapshot.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docsnap.RouteFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		level, msg := slog.LevelInfo, "sitemap discovery"
		if err == nil && len(urls) == 0 {
			level, msg = slog.LevelWarn, "sitemap discovery found no pages"
		}
		s.logger.Log(ctx, level, msg,
			"url", baseURL,
			"count", len(urls),
			filterGroup(filter),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// filterGroup renders a route filter's patterns as a log group.
func filterGroup(filter *docsnap.RouteFilter) slog.Attr {
	var include, exclude []string
	if filter != nil {
		for _, re := range filter.Include {
			include = append(include, re.String())
		}
		for _, re := range filter.Exclude {
			exclude = append(exclude, re.String())
		}
	}
	return slog.Group("filter", "include", include, "exclude", exclude)
}

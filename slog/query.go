package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsnap"
)

// Ensure LoggingQueryService implements docsnap.QueryService.
var _ docsnap.QueryService = (*LoggingQueryService)(nil)

// LoggingQueryService wraps a QueryService with logging.
type LoggingQueryService struct {
	next   docsnap.QueryService
	logger *slog.Logger
}

// NewLoggingQueryService creates a new LoggingQueryService.
func NewLoggingQueryService(next docsnap.QueryService, logger *slog.Logger) *LoggingQueryService {
	return &LoggingQueryService{next: next, logger: logger}
}

// Search logs the query and the number of results.
func (s *LoggingQueryService) Search(ctx context.Context, query string, limit int) (results []*docsnap.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"limit", limit,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, limit)
}

// GetDocument logs the lookup key and the resolved route.
func (s *LoggingQueryService) GetDocument(ctx context.Context, routeOrURL string) (doc *docsnap.Document, err error) {
	defer func(begin time.Time) {
		var route string
		if doc != nil {
			route = doc.Route
		}
		s.logger.Info("get document",
			"key", routeOrURL,
			"route", route,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetDocument(ctx, routeOrURL)
}

// GetSection logs the route and heading id.
func (s *LoggingQueryService) GetSection(ctx context.Context, route, headingID string) (section *docsnap.SectionResult, err error) {
	defer func(begin time.Time) {
		var n int
		if section != nil {
			n = len(section.Content)
		}
		s.logger.Info("get section",
			"route", route,
			"heading", headingID,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetSection(ctx, route, headingID)
}

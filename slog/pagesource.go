package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsnap"
)

// Ensure LoggingPageSource implements docsnap.PageSource.
var _ docsnap.PageSource = (*LoggingPageSource)(nil)

// LoggingPageSource wraps a PageSource with logging.
type LoggingPageSource struct {
	next   docsnap.PageSource
	logger *slog.Logger
}

// NewLoggingPageSource creates a new LoggingPageSource.
func NewLoggingPageSource(next docsnap.PageSource, logger *slog.Logger) *LoggingPageSource {
	return &LoggingPageSource{next: next, logger: logger}
}

// ListPages logs the number of pages found.
func (s *LoggingPageSource) ListPages(ctx context.Context) (refs []docsnap.PageRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list pages",
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListPages(ctx)
}

// ReadPage logs every page read at debug level.
func (s *LoggingPageSource) ReadPage(ctx context.Context, ref docsnap.PageRef) (page *docsnap.Page, err error) {
	defer func(begin time.Time) {
		var n int
		if page != nil {
			n = len(page.HTML)
		}
		s.logger.Debug("read page",
			"route", ref.Route,
			"location", ref.Location,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReadPage(ctx, ref)
}

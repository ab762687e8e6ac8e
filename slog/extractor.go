package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docsnap"
)

// Ensure LoggingExtractor implements docsnap.Extractor.
var _ docsnap.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging for framework
// detection and extraction results.
type LoggingExtractor struct {
	next     docsnap.Extractor
	detector docsnap.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. The detector may be nil.
func NewLoggingExtractor(next docsnap.Extractor, detector docsnap.FrameworkDetector, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, detector: detector, logger: logger}
}

// Extract logs the detected framework and the extracted title.
func (e *LoggingExtractor) Extract(html string) (result *docsnap.ExtractResult, err error) {
	frameworkName := "(unknown)"
	if e.detector != nil {
		if framework := e.detector.Detect(html); framework != docsnap.FrameworkUnknown {
			frameworkName = string(framework)
		}
	}
	defer func(begin time.Time) {
		var title string
		var n int
		if result != nil {
			title = result.Title
			n = len(result.ContentHTML)
		}
		e.logger.Debug("extract",
			"framework", frameworkName,
			"title", title,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}

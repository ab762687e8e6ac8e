// Package prometheus provides Prometheus metrics for docsnap services.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/docsnap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation label values.
const (
	OpSearch      = "search"
	OpGetDocument = "get_document"
	OpGetSection  = "get_section"
)

// Metrics holds the query metrics of a server.
type Metrics struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SearchResults   prometheus.Histogram
	Documents       prometheus.Gauge
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsnap_query_requests_total",
				Help: "Total number of query requests",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsnap_query_duration_seconds",
				Help:    "Duration of query requests in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		SearchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsnap_search_results",
				Help:    "Number of results returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
		),
		Documents: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsnap_documents",
				Help: "Number of documents in the loaded snapshot",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) observe(op string, begin time.Time, err error) {
	status := "ok"
	if err != nil {
		status = docsnap.ErrorCode(err)
	}
	m.RequestsTotal.WithLabelValues(op, status).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
}

// Ensure QueryService implements docsnap.QueryService.
var _ docsnap.QueryService = (*QueryService)(nil)

// QueryService wraps a QueryService with request metrics.
type QueryService struct {
	next    docsnap.QueryService
	metrics *Metrics
}

// NewQueryService creates a new QueryService.
func NewQueryService(next docsnap.QueryService, metrics *Metrics) *QueryService {
	return &QueryService{next: next, metrics: metrics}
}

// Search records the request and the number of results.
func (s *QueryService) Search(ctx context.Context, query string, limit int) (results []*docsnap.SearchResult, err error) {
	defer func(begin time.Time) {
		s.metrics.observe(OpSearch, begin, err)
		if err == nil {
			s.metrics.SearchResults.Observe(float64(len(results)))
		}
	}(time.Now())
	return s.next.Search(ctx, query, limit)
}

// GetDocument records the request.
func (s *QueryService) GetDocument(ctx context.Context, routeOrURL string) (doc *docsnap.Document, err error) {
	defer func(begin time.Time) {
		s.metrics.observe(OpGetDocument, begin, err)
	}(time.Now())
	return s.next.GetDocument(ctx, routeOrURL)
}

// GetSection records the request.
func (s *QueryService) GetSection(ctx context.Context, route, headingID string) (section *docsnap.SectionResult, err error) {
	defer func(begin time.Time) {
		s.metrics.observe(OpGetSection, begin, err)
	}(time.Now())
	return s.next.GetSection(ctx, route, headingID)
}

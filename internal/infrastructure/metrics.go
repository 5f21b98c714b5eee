package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the statistics pipeline and
// its HTTP surface.
type Metrics struct {
	CatalogLoads prometheus.Counter
	Queries      prometheus.Counter
	Exports      prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics registers the application metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CatalogLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinstats_catalog_loads_total",
			Help: "Number of catalog builds that read files from disk.",
		}),
		Queries: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinstats_queries_total",
			Help: "Number of statistics queries aggregated.",
		}),
		Exports: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinstats_exports_total",
			Help: "Number of spreadsheet exports generated.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vinstats_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vinstats_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

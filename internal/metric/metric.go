// Package metric holds the Prometheus collectors of the application.
package metric // import "github.com/Xunop/book-manager/internal/metric"

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "book_manager"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	syncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_sync_total",
			Help:      "Number of snapshot syncs by result.",
		},
		[]string{"result"},
	)

	importedBooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_books_total",
			Help:      "Number of books inserted by file imports, by format.",
		},
		[]string{"format"},
	)
)

// ObserveRequest records one served request. route is the mux path template.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func ObserveSync(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	syncTotal.WithLabelValues(result).Inc()
}

func AddImportedBooks(format string, n int) {
	if n > 0 {
		importedBooksTotal.WithLabelValues(format).Add(float64(n))
	}
}

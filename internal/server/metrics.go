package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marine_http_requests_total",
			Help: "HTTP requests handled by the marine portal.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marine_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	recordsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marine_records_submitted_total",
			Help: "Records written through form submissions, by kind.",
		},
		[]string{"kind"},
	)

	blobBytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marine_blob_bytes_written_total",
		Help: "Bytes of uploaded files written to the blob store.",
	})
)

// observeRequest records one finished request. The route label is the mux
// pattern so path parameters do not blow up cardinality.
func observeRequest(r *http.Request, status int, elapsed time.Duration) {
	route := r.Pattern
	if route == "" {
		route = unmatchedRoute
	}
	httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
}

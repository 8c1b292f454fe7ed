package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RecordsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_records_ingested_total",
		Help: "Records accepted by ingestion, by kind.",
	}, []string{"kind"})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_records_skipped_total",
		Help: "Rows dropped by ingestion, by kind.",
	}, []string{"kind"})

	DatasetsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sales_datasets_loaded",
		Help: "Datasets currently held in memory.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_analysis_duration_seconds",
		Help:    "Time spent deriving analytics, by section.",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"section"})
)

// Instrument records request count and latency under the matched chi route
// pattern, so path parameters do not explode label cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveSince records the time elapsed since start for an analysis section.
func ObserveSince(section string, start time.Time) {
	AnalysisDuration.WithLabelValues(section).Observe(time.Since(start).Seconds())
}

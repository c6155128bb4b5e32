package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	checkoutSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Order submissions by payment provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	checkoutSubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_submit_duration_seconds",
			Help:    "Time spent waiting for the order recorder.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	checkoutSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkout_sessions_active",
			Help: "Checkout sessions currently held in memory.",
		},
	)
	promoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_code_lookups_total",
			Help: "Promo code lookups by source and result.",
		},
		[]string{"source", "result"},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// ObserveSubmission records one finished submission. Outcome is the step it ended in.
func ObserveSubmission(provider, outcome string, d time.Duration) {
	checkoutSubmissions.WithLabelValues(provider, outcome).Inc()
	checkoutSubmitDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func SetActiveSessions(n int) {
	checkoutSessionsActive.Set(float64(n))
}

// ObservePromoLookup counts a lookup. source is cache or db; result is hit, miss or error.
func ObservePromoLookup(source, result string) {
	promoLookups.WithLabelValues(source, result).Inc()
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware labels requests with the matched mux pattern so path ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

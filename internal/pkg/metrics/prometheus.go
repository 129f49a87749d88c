package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reminderflow"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Authentication metrics (server side)
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Sign-in and sign-up attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// Dashboard session metrics
	sessionInitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "initializations_total",
			Help:      "Session initializations by resulting state",
		},
		[]string{"state"},
	)

	sessionFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "fetch_errors_total",
			Help:      "Swallowed errors while loading session data",
		},
		[]string{"entity"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "auth_events_total",
			Help:      "Auth state change events observed by the session store",
		},
		[]string{"event"},
	)

	toastsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "toast",
			Name:      "posted_total",
			Help:      "Toast notifications posted by type",
		},
		[]string{"type"},
	)

	// Worker metrics
	rollupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "rollup_duration_seconds",
			Help:      "Duration of the daily analytics roll-up",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	rollupBusinesses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "rollup_businesses_total",
			Help:      "Businesses processed by the analytics roll-up by outcome",
		},
		[]string{"outcome"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streamed responses keep working
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthAttempt records a sign-in or sign-up outcome
func RecordAuthAttempt(method, outcome string) {
	authAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordSessionInit records the state a session initialization ended in
func RecordSessionInit(state string) {
	sessionInitTotal.WithLabelValues(state).Inc()
}

// RecordSessionFetchError records an error swallowed while loading session data
func RecordSessionFetchError(entity string) {
	sessionFetchErrors.WithLabelValues(entity).Inc()
}

// RecordAuthEvent records an auth state change event
func RecordAuthEvent(event string) {
	authEventsTotal.WithLabelValues(event).Inc()
}

// RecordToast records a posted toast
func RecordToast(toastType string) {
	toastsPosted.WithLabelValues(toastType).Inc()
}

// RecordRollup records one analytics roll-up run
func RecordRollup(duration time.Duration, ok, failed int) {
	rollupDuration.Observe(duration.Seconds())
	rollupBusinesses.WithLabelValues("ok").Add(float64(ok))
	rollupBusinesses.WithLabelValues("failed").Add(float64(failed))
}

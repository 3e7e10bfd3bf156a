package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhyrak/section-scheduler/internal/scheduler"
)

// Metrics holds the Prometheus collectors of the scheduler and its HTTP
// driver on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	buckets         *prometheus.CounterVec
	bucketDuration  prometheus.Histogram
	bucketAttempts  prometheus.Histogram
	assignments     prometheus.Counter
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	buckets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_buckets_total",
		Help: "Scheduled buckets by outcome",
	}, []string{"outcome"})

	bucketDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_bucket_duration_seconds",
		Help:    "Time spent scheduling one bucket, retries included",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	bucketAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_bucket_attempts",
		Help:    "Attempts used per bucket",
		Buckets: prometheus.LinearBuckets(1, 1, 5),
	})

	assignments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_assignments_total",
		Help: "Committed assignments of successful buckets",
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registry.MustRegister(buckets, bucketDuration, bucketAttempts, assignments, requestDuration, requestTotal)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		buckets:         buckets,
		bucketDuration:  bucketDuration,
		bucketAttempts:  bucketAttempts,
		assignments:     assignments,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveBucket implements scheduler.Observer.
func (m *Metrics) ObserveBucket(r *scheduler.BucketResult) {
	if m == nil {
		return
	}
	m.buckets.WithLabelValues(Outcome(r.Err)).Inc()
	m.bucketDuration.Observe(r.Elapsed.Seconds())
	m.bucketAttempts.Observe(float64(r.Attempts))
	m.assignments.Add(float64(len(r.Assignments)))
}

// Outcome labels a bucket error by its scheduler code.
func Outcome(err error) string {
	if err == nil {
		return "scheduled"
	}
	var serr *scheduler.Error
	if errors.As(err, &serr) {
		return string(serr.Code)
	}
	return "error"
}

// ObserveHTTPRequest records request metrics.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// GinMiddleware records every request under its route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

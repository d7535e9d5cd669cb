package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Content events counted by RecordContentEvent.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentAdded   = "comment_added"
	EventUserRegistered = "user_registered"
	EventLoginFailed    = "login_failed"
)

var (
	// Registry holds the blog's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanblog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cleanblog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	contentEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanblog",
			Name:      "content_events_total",
			Help:      "Posts, comments and account events committed to the store.",
		},
		[]string{"event"},
	)

	contactDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cleanblog",
			Name:      "contact_deliveries_total",
			Help:      "Contact form messages handed to the mail relay.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		contentEvents,
		contactDeliveries,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route
// pattern, so /post/1 and /post/2 share one series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if route == "/metrics" {
			return
		}

		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordContentEvent counts a committed content or account event.
func RecordContentEvent(event string) {
	contentEvents.WithLabelValues(event).Inc()
}

// RecordContactDelivery counts a contact mail attempt.
func RecordContactDelivery(success bool) {
	result := "failed"
	if success {
		result = "sent"
	}
	contactDeliveries.WithLabelValues(result).Inc()
}

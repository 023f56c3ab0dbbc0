package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	resp "employee-api/internal/transport/http/response"
)

const namespace = "employee_api"

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_in_flight", Help: "Requests currently being served"},
	)
	httpRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_rejected_total", Help: "Requests turned away by a limit middleware"},
		[]string{"reason"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight, httpRejected) }

// reject counts the rejection and aborts with the envelope.
func reject(c *gin.Context, reason string, status int, msg string) {
	httpRejected.WithLabelValues(reason).Inc()
	resp.Abort(c, status, msg)
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the default registry in the Prometheus text format.
func MetricsHandler() http.Handler { return promhttp.Handler() }

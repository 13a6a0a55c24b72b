package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "comments_created_total", Help: "Comments inserted"})
	ProfilesCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "profiles_created_total", Help: "Profiles inserted"})
	Rejections      = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "request_rejections_total", Help: "Requests rejected by error kind"},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, CommentsCreated, ProfilesCreated, Rejections)
}

// Handler records request count and latency per route
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer serves the default registry in the Prometheus text format
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	LoginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of successful logins",
	})
	TokenRotationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_rotations_total",
		Help: "Total number of successful refresh token rotations",
	})
	TokensSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_swept_total",
		Help: "Total number of expired refresh tokens revoked by the sweeper",
	})
	WordleResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "game_wordle_results_total",
		Help: "Total number of recorded wordle results",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		LoginsTotal,
		TokenRotationsTotal,
		TokensSweptTotal,
		WordleResultsTotal,
	)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	// AnswerCounter counts resolved queries by the source tag that answered them.
	AnswerCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_answers_total",
			Help: "Answered chat queries by answer source",
		},
		[]string{"source"},
	)

	// PersistCounter counts log/history appends by outcome (saved, skipped, failed).
	PersistCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_persisted_entries_total",
			Help: "Log and history append attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, AnswerCounter, PersistCounter)
	})
}

func RecordAnswer(source string) {
	AnswerCounter.WithLabelValues(source).Inc()
}

func RecordPersist(kind, outcome string) {
	PersistCounter.WithLabelValues(kind, outcome).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

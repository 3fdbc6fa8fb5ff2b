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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	AnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_answers_graded_total",
			Help: "Graded answers by outcome (correct, wrong, escalated)",
		},
		[]string{"outcome"},
	)

	AnswerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_answer_errors_total",
			Help: "Wrong answers by error category",
		},
		[]string{"category"},
	)

	SummaryRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_session_summaries_total",
			Help: "Session summary requests by source (cache, store, computed)",
		},
		[]string{"source"},
	)

	InsightFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vocab_insight_fallbacks_total",
			Help: "Linguistic insights replaced by the fallback text",
		},
	)

	SentenceGeneration = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocab_sentence_generation_total",
			Help: "Sentence generation runs by mode and result",
		},
		[]string{"mode", "result"},
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocab_llm_request_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			AnswersGraded,
			AnswerErrors,
			SummaryRequests,
			InsightFallbacks,
			SentenceGeneration,
			LLMLatency,
		)
	})
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

// ObserveLLM 记录一次模型调用耗时
func ObserveLLM(operation string, start time.Time) {
	LLMLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

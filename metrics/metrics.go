// Package metrics 定义 Prometheus 指标，进程级单例。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedrec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// 推荐链路
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedrec_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline node in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"domain", "node", "kind"},
	)

	PipelineStageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_pipeline_stage_errors_total",
			Help: "Total number of pipeline node failures",
		},
		[]string{"domain", "node"},
	)

	FilterFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_filter_fallbacks_total",
			Help: "Number of requests whose filters matched nothing, by fallback tier",
		},
		[]string{"domain", "tier"},
	)

	ColdStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_cold_starts_total",
			Help: "Number of requests answered from the popularity ranking",
		},
		[]string{"domain"},
	)

	RecommendationsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedrec_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"domain"},
	)

	// 目录
	CatalogRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seedrec_catalog_rows",
			Help: "Number of rows in the loaded catalog",
		},
		[]string{"domain", "source"},
	)
)

// RecordAPIRequest 记录一次 HTTP 请求。
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordStage 记录一个 Pipeline 节点的耗时。
func RecordStage(domain, node, kind string, d time.Duration, err error) {
	PipelineStageDuration.WithLabelValues(domain, node, kind).Observe(d.Seconds())
	if err != nil {
		PipelineStageErrors.WithLabelValues(domain, node).Inc()
	}
}

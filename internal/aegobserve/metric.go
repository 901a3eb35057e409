// Package aegobserve 暴露 Prometheus 指标
package aegobserve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridaegis_http_request_duration_seconds",
		Help:    "HTTP 请求处理耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "code"})

	gridRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridaegis_grid_requests_total",
		Help: "按 grid 与结果统计的表格请求数",
	}, []string{"grid", "outcome"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridaegis_query_duration_seconds",
		Help:    "表格请求中每条 SQL 查询的耗时",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"grid", "kind", "status"})
)

// 表格请求结果分类
const (
	OutcomeOK           = "ok"
	OutcomeConfigError  = "config_error"
	OutcomeRequestError = "request_error"
	OutcomeFailed       = "failed"
)

// Register 必须在 main 调用一次
func Register() {
	prometheus.MustRegister(httpRequestDuration, gridRequests, queryDuration)
}

// Handler 返回 HTTP 处理器
func Handler() http.Handler { return promhttp.Handler() }

// PrometheusMiddleware 记录每个请求的耗时，path 使用路由模板以控制标签基数
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// RecordGridRequest 统计一次表格请求的结果
func RecordGridRequest(grid, outcome string) {
	gridRequests.WithLabelValues(grid, outcome).Inc()
}

// QueryObserver 返回一个记录单条查询耗时的回调，kind 为 filtered / total / data
func QueryObserver(grid string) func(kind string, elapsed time.Duration, err error) {
	return func(kind string, elapsed time.Duration, err error) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		queryDuration.WithLabelValues(grid, kind, status).Observe(elapsed.Seconds())
	}
}

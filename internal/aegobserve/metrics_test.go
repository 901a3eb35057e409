// file: internal/aegobserve/metrics_test.go

package aegobserve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapDefaultRegistry 用独立 Registry 替换全局默认值，避免测试之间重复注册
func swapDefaultRegistry() (*prometheus.Registry, func()) {
	reg := prometheus.NewRegistry()
	prevReg, prevGat := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer, prometheus.DefaultGatherer = reg, reg
	return reg, func() {
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer = prevReg, prevGat
	}
}

// labelsMatch 要求 labelset 与 want 完全一致
func labelsMatch(m *dto.Metric, want map[string]string) bool {
	if len(m.GetLabel()) != len(want) {
		return false
	}
	for _, l := range m.GetLabel() {
		if v, ok := want[l.GetName()]; !ok || v != l.GetValue() {
			return false
		}
	}
	return true
}

func gatheredNames(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	return names
}

func TestRegister_ExposesAllVectors(t *testing.T) {
	reg, restore := swapDefaultRegistry()
	defer restore()
	Register()

	httpRequestDuration.WithLabelValues("/healthz", http.MethodGet, "200").Observe(0)
	RecordGridRequest("students", OutcomeConfigError)
	QueryObserver("students")("total", 0, nil)

	assert.ElementsMatch(t, []string{
		"gridaegis_http_request_duration_seconds",
		"gridaegis_grid_requests_total",
		"gridaegis_query_duration_seconds",
	}, gatheredNames(t, reg))

	assert.Panics(t, Register, "重复注册应触发 MustRegister panic")
}

func TestHandler_ServesGridMetrics(t *testing.T) {
	_, restore := swapDefaultRegistry()
	defer restore()
	Register()
	RecordGridRequest("class_sizes", OutcomeFailed)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gridaegis_grid_requests_total{grid="class_sizes",outcome="failed"} 1`)
}

func TestPrometheusMiddleware_PathLabels(t *testing.T) {
	reg, restore := swapDefaultRegistry()
	defer restore()
	Register()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/api/v1/grids/:gridName", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"grid": c.Param("gridName")})
	})

	for _, path := range []string{"/api/v1/grids/students", "/api/v1/grids/class_sizes", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	const name = "gridaegis_http_request_duration_seconds"
	assert.Equal(t, uint64(2), sampleCount(t, reg, name,
		map[string]string{"path": "/api/v1/grids/:gridName", "method": "GET", "code": "200"}),
		"具体 grid 名不应进入 path 标签")
	assert.Equal(t, uint64(1), sampleCount(t, reg, name,
		map[string]string{"path": "unmatched", "method": "GET", "code": "404"}))
	assert.Zero(t, sampleCount(t, reg, name,
		map[string]string{"path": "/api/v1/grids/students", "method": "GET", "code": "200"}))
}

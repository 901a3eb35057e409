// file: internal/transport/http/router/router.go
package router

import (
	"GridAegis/internal/aegmiddleware"
	"GridAegis/internal/aegobserve"
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"GridAegis/internal/service/datatables"
	"GridAegis/internal/service/grid"
	"GridAegis/internal/transport/http/middleware"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// GridLookup 是路由所需的 grid 查询能力，*grid.Registry 满足该接口
type GridLookup interface {
	Get(name string) (*grid.Grid, error)
	Names() []string
}

// Dependencies 结构体用于将所有依赖项注入到路由器中
type Dependencies struct {
	Grids       GridLookup
	DataSources port.DataSourceProvider
	RateLimiter *aegmiddleware.RateLimiter // 可为 nil
}

// New 创建并配置基于 Gin 的 HTTP 路由器
func New(deps Dependencies) http.Handler {
	router := gin.Default()

	// --- 配置全局中间件 ---
	router.Use(middleware.RequestID(), aegobserve.PrometheusMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	// 需在 gzip 之内，保证错误响应在压缩流关闭前写出
	router.Use(middleware.ErrorHandlingMiddleware())

	router.GET("/healthz", healthHandler(deps.DataSources))
	router.GET("/metrics", gin.WrapH(aegobserve.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/grids", gridListHandler(deps.Grids))

		handlers := []gin.HandlerFunc{}
		if deps.RateLimiter != nil {
			handlers = append(handlers, deps.RateLimiter.Chain("gridName")...)
		}
		handlers = append(handlers, gridDataHandler(deps.Grids, deps.DataSources))
		v1.GET("/grids/:gridName", handlers...)
	}

	return router
}

// healthHandler 依次 ping 所有数据源
func healthHandler(sources port.DataSourceProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := sources.HealthCheck(ctx); err != nil {
			slog.Warn("健康检查失败", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "datasources": sources.Names()})
	}
}

// gridListHandler 返回所有已配置的 grid 名称
func gridListHandler(grids GridLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": grids.Names()})
	}
}

// gridDataHandler 是表格组件的数据接口：解码 GET 参数，执行三条查询并写出响应信封。
// 配置/请求错误以 200 + {"error": msg} 返回；其余错误交给 ErrorHandlingMiddleware。
func gridDataHandler(grids GridLookup, sources port.DataSourceProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("gridName")
		g, err := grids.Get(name)
		if err != nil {
			_ = c.Error(err)
			return
		}
		catalog, err := sources.Catalog(g.DataSource)
		if err != nil {
			_ = c.Error(err)
			return
		}
		qb, err := sources.NewQueryBuilder(g.DataSource)
		if err != nil {
			_ = c.Error(err)
			return
		}

		ctx := c.Request.Context()
		req := datatables.ParseWireRequest(c.Request.URL.Query())

		var resp *domain.Response
		p, err := datatables.New(ctx, g.Table, catalog, qb, req, datatables.WithQueryObserver(aegobserve.QueryObserver(name)))
		if err == nil {
			resp, err = p.Process(ctx, g.RowID, g.RowClass)
		}
		aegobserve.RecordGridRequest(name, outcome(err))

		if err := datatables.Emit(c, resp, err); err != nil {
			_ = c.Error(err)
		}
	}
}

func outcome(err error) string {
	var ce *port.ConfigError
	var re *port.RequestError
	switch {
	case err == nil:
		return aegobserve.OutcomeOK
	case errors.As(err, &ce):
		return aegobserve.OutcomeConfigError
	case errors.As(err, &re):
		return aegobserve.OutcomeRequestError
	default:
		return aegobserve.OutcomeFailed
	}
}

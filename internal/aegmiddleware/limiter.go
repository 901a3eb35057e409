// Package aegmiddleware 提供 HTTP 层的速率限制中间件
package aegmiddleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// 不活跃的限制器在此时长后被回收
	limiterIdleTTL      = 15 * time.Minute
	limiterCleanupEvery = 10 * time.Minute
)

// GridLimitLookup 返回某个 grid 的专属限流参数；rps <= 0 或 ok 为 false 表示不限流
type GridLimitLookup func(grid string) (rps float64, burst int, ok bool)

// RateLimiter 管理三层令牌桶限流：全局、按客户端 IP、按 grid。
// rps 为 0 的层级不启用。按键的限制器存放在带过期时间的 go-cache 中，长期不活跃的条目会被自动回收。
type RateLimiter struct {
	global *rate.Limiter

	ipRate  rate.Limit
	ipBurst int
	ips     *cache.Cache

	gridLimits GridLimitLookup
	grids      *cache.Cache
}

// NewRateLimiter 创建限流器。lookup 可为 nil，此时不做按 grid 的限流。
func NewRateLimiter(globalRPS float64, globalBurst int, ipRPS float64, ipBurst int, lookup GridLimitLookup) *RateLimiter {
	rl := &RateLimiter{
		ipRate:     rate.Limit(ipRPS),
		ipBurst:    normalizeBurst(ipRPS, ipBurst),
		ips:        cache.New(limiterIdleTTL, limiterCleanupEvery),
		gridLimits: lookup,
		grids:      cache.New(limiterIdleTTL, limiterCleanupEvery),
	}
	if globalRPS > 0 {
		rl.global = rate.NewLimiter(rate.Limit(globalRPS), normalizeBurst(globalRPS, globalBurst))
	}
	slog.Info("速率限制器初始化完成",
		"global_rps", globalRPS, "global_burst", globalBurst,
		"ip_rps", ipRPS, "ip_burst", rl.ipBurst)
	return rl
}

// normalizeBurst 在未配置峰值时取每秒速率 (至少为 1)，避免 burst 为 0 的限制器拒绝一切请求
func normalizeBurst(rps float64, burst int) int {
	if burst > 0 {
		return burst
	}
	if rps >= 1 {
		return int(rps)
	}
	return 1
}

// limiterFor 返回 key 对应的限制器，不存在时创建；每次访问都会续期
func limiterFor(store *cache.Cache, key string, r rate.Limit, burst int) *rate.Limiter {
	if v, ok := store.Get(key); ok {
		lim := v.(*rate.Limiter)
		store.Set(key, lim, cache.DefaultExpiration)
		return lim
	}
	lim := rate.NewLimiter(r, burst)
	if err := store.Add(key, lim, cache.DefaultExpiration); err != nil {
		// 并发请求已抢先创建
		if v, ok := store.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Global 返回全局限制中间件
func (rl *RateLimiter) Global() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.global != nil && !rl.global.Allow() {
			errResp(c, "系统繁忙，请稍后再试 (global limit)")
			return
		}
		c.Next()
	}
}

// PerIP 返回IP限制中间件
func (rl *RateLimiter) PerIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.ipRate <= 0 {
			c.Next()
			return
		}
		ip := getClientIP(c.Request)
		if !limiterFor(rl.ips, ip, rl.ipRate, rl.ipBurst).Allow() {
			errResp(c, "您的请求过于频繁，请稍后再试 (per-ip limit)")
			return
		}
		c.Next()
	}
}

// PerGrid 返回按 grid 限制的中间件，grid 名称取自路由参数 param。
// 限流参数变化 (例如配置热更新) 后会使用新的限制器。
func (rl *RateLimiter) PerGrid(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param(param)
		if rl.gridLimits == nil || name == "" {
			c.Next()
			return
		}
		rps, burst, ok := rl.gridLimits(name)
		if !ok || rps <= 0 {
			c.Next()
			return
		}
		burst = normalizeBurst(rps, burst)
		key := fmt.Sprintf("%s|%g|%d", name, rps, burst)
		if !limiterFor(rl.grids, key, rate.Limit(rps), burst).Allow() {
			errResp(c, "此表格接口请求过于频繁，请稍后再试 (per-grid limit)")
			return
		}
		c.Next()
	}
}

// Chain 组合了全部限制层，用于表格数据接口。顺序: Global -> IP -> Grid
func (rl *RateLimiter) Chain(param string) []gin.HandlerFunc {
	return []gin.HandlerFunc{rl.Global(), rl.PerIP(), rl.PerGrid(param)}
}

// getClientIP 从请求中获取客户端IP地址，考虑代理情况
func getClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	if ip != "" {
		return ip
	}
	ip = r.Header.Get("X-Real-IP")
	if ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func errResp(c *gin.Context, msg string) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msg})
}

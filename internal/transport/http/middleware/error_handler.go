// Package middleware file: internal/transport/http/middleware/error_handler.go
package middleware

import (
	"GridAegis/internal/core/port"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandlingMiddleware 是一个Gin中间件，用于集中处理错误。
// 表格组件约定的配置/请求错误已由处理器以 200 + {"error"} 写出，不会到达这里。
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 处理器中通过 c.Error(err) 附加的错误都会被收集到 c.Errors
		if len(c.Errors) == 0 {
			return
		}

		// 只处理最后一个错误，它通常是根本原因
		err := c.Errors.Last().Err
		slog.Error("请求处理失败",
			"request_id", c.GetString(RequestIDKey),
			"path", c.Request.URL.Path,
			"error", err)

		if c.Writer.Written() {
			return
		}

		switch {
		case errors.Is(err, port.ErrGridNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "表格 '" + c.Param("gridName") + "' 未找到或未配置"})
		default:
			// 对于所有其他未知错误，返回 500 服务器内部错误
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
	}
}

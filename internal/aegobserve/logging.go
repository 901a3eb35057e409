// Package aegobserve file: internal/aegobserve/logging.go
package aegobserve

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel 把配置中的级别字符串转换为 slog.Level，未知值回退为 INFO
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger 按级别与格式 ("json" / "text") 创建 logger，未知格式使用 JSON
func NewLogger(w io.Writer, levelStr, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(levelStr),
		AddSource: true,
	}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// InitLogger 初始化全局的结构化日志记录器，输出到标准输出。
// 它应该在 main 函数的早期被调用。
func InitLogger(levelStr, format string) {
	slog.SetDefault(NewLogger(os.Stdout, levelStr, format))
}

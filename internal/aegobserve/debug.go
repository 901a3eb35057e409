// Package aegobserve file: internal/aegobserve/debug.go
package aegobserve

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
)

// PprofMux 返回只挂载 /debug/pprof 端点的独立 mux，不污染 http.DefaultServeMux
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// EnablePprof 在指定地址上暴露 /debug/pprof 端点，返回的 server 由调用方负责关闭。
// addr 为空时不启动，返回 nil。
func EnablePprof(addr string) *http.Server {
	if addr == "" {
		slog.Info("pprof endpoint is disabled because address is empty")
		return nil
	}
	srv := &http.Server{Addr: addr, Handler: PprofMux()}
	go func() {
		slog.Info("Starting pprof endpoint", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start pprof endpoint", "error", err)
		}
	}()
	return srv
}

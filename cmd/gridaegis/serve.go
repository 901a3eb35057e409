// file: cmd/gridaegis/serve.go

package main

import (
	"GridAegis/internal/adapter/datasource/sqldb"
	"GridAegis/internal/aegconf"
	"GridAegis/internal/aegmiddleware"
	"GridAegis/internal/aegobserve"
	"GridAegis/internal/core/domain"
	"GridAegis/internal/service/grid"
	"GridAegis/internal/transport/http/router"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 网关",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// 在日志系统完全初始化前，使用标准 log
	log.Printf("GridAegis %s 正在启动...", version)

	cfg, err := aegconf.Load(configPath)
	if err != nil {
		return err
	}
	aegobserve.InitLogger(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.Info("配置加载并解析成功", "path", configPath, "version", version)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources := sqldb.NewManager()
	if err := sources.OpenAll(ctx, cfg.DataSources); err != nil {
		return fmt.Errorf("初始化数据源失败: %w", err)
	}
	defer func() {
		slog.Info("正在关闭数据源连接...")
		if err := sources.Close(); err != nil {
			slog.Error("关闭数据源时发生错误", "error", err)
		}
	}()

	registry := grid.NewRegistry(sources.Names())
	if err := registry.Replace(cfg.Grids); err != nil {
		return fmt.Errorf("装载 grid 定义失败: %w", err)
	}
	reloadGrids := func() (map[string]domain.GridDefinition, error) {
		next, err := aegconf.Load(configPath)
		if err != nil {
			return nil, err
		}
		return next.Grids, nil
	}
	if err := registry.Watch(ctx, configPath, reloadGrids, nil); err != nil {
		slog.Warn("配置热加载未启用", "error", err)
	}

	rateLimiter := aegmiddleware.NewRateLimiter(
		cfg.RateLimit.GlobalRPS, cfg.RateLimit.GlobalBurst,
		cfg.RateLimit.IPRPS, cfg.RateLimit.IPBurst,
		func(name string) (float64, int, bool) {
			g, err := registry.Get(name)
			if err != nil {
				return 0, 0, false
			}
			return g.RateLimitRPS, g.RateLimitBurst, true
		},
	)

	aegobserve.Register()
	slog.Info("监控: metrics 已注册。")

	httpRouter := router.New(router.Dependencies{
		Grids:       registry,
		DataSources: sources,
		RateLimiter: rateLimiter,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	pprofServer := aegobserve.EnablePprof(cfg.Server.PprofAddr)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("GridAegis 启动成功，开始监听HTTP请求...", "address", addr, "grids", registry.Names())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
	case <-ctx.Done():
		slog.Info("收到停机信号，准备优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if pprofServer != nil {
		_ = pprofServer.Shutdown(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务优雅关闭失败: %w", err)
	}
	slog.Info("HTTP服务已成功关闭。")
	return nil
}

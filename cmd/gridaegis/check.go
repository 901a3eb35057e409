// file: cmd/gridaegis/check.go

package main

import (
	"GridAegis/internal/adapter/datasource/sqldb"
	"GridAegis/internal/aegconf"
	"GridAegis/internal/aegobserve"
	"GridAegis/internal/service/grid"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var checkConcurrency int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "对照实时数据库结构校验全部 grid 配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", 4, "并发校验的 grid 数量")
}

func runCheck(ctx context.Context, out io.Writer) error {
	cfg, err := aegconf.Load(configPath)
	if err != nil {
		return err
	}
	aegobserve.InitLogger("WARN", cfg.Server.LogFormat)

	sources := sqldb.NewManager()
	if err := sources.OpenAll(ctx, cfg.DataSources); err != nil {
		return fmt.Errorf("初始化数据源失败: %w", err)
	}
	defer sources.Close()

	registry := grid.NewRegistry(sources.Names())
	if err := registry.Replace(cfg.Grids); err != nil {
		return fmt.Errorf("装载 grid 定义失败: %w", err)
	}

	failed := 0
	for _, r := range grid.CheckAll(ctx, registry.All(), sources, checkConcurrency) {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %s: %v\n", r.Grid, r.Err)
			continue
		}
		fmt.Fprintf(out, "OK    %s\n", r.Grid)
	}
	if failed > 0 {
		return fmt.Errorf("%d 个 grid 校验失败", failed)
	}
	return nil
}

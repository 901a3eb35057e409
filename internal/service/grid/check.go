// Package grid file: internal/service/grid/check.go
package grid

import (
	"GridAegis/internal/core/port"
	"GridAegis/internal/service/datatables"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CheckResult 是单个 grid 针对实时 schema 的校验结果，Err 为 nil 表示通过
type CheckResult struct {
	Grid string
	Err  error
}

// CheckAll 并发地把每个 grid 的表配置与其数据源的实时 schema 比对。
// 单个 grid 的失败不会中断其他 grid 的检查；结果按 grids 的顺序返回。
// concurrency <= 0 表示不限制并发数。
func CheckAll(ctx context.Context, grids []*Grid, sources port.DataSourceProvider, concurrency int) []CheckResult {
	results := make([]CheckResult, len(grids))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, gr := range grids {
		i, gr := i, gr
		g.Go(func() error {
			results[i] = CheckResult{Grid: gr.Name, Err: checkOne(gctx, gr, sources)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkOne(ctx context.Context, g *Grid, sources port.DataSourceProvider) error {
	catalog, err := sources.Catalog(g.DataSource)
	if err != nil {
		return err
	}
	if err := datatables.ValidateConfig(ctx, catalog, g.Table); err != nil {
		return err
	}
	switch g.RowID {
	case "id", "data", "none":
	default:
		return fmt.Errorf("row_id '%s': %w", g.RowID, port.ErrInvalidRowID)
	}
	if g.RowClass != nil {
		if _, ok := g.RowClass.(string); !ok {
			return port.ErrInvalidRowClass
		}
	}
	return nil
}

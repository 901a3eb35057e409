// Package datatables file: internal/service/datatables/validate.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"context"
	"fmt"
)

// ValidateConfig 针对实时 schema 校验表、主键以及每一个配置列。
// 首个不符项即返回 *port.ConfigError；目录查询本身失败时返回包装后的普通错误。
func ValidateConfig(ctx context.Context, catalog port.SchemaCatalog, cfg domain.TableConfig) error {
	exists, err := catalog.TableExists(ctx, cfg.Table)
	if err != nil {
		return fmt.Errorf("检查表 '%s' 是否存在失败: %w", cfg.Table, err)
	}
	if !exists {
		return port.ErrTableNotFound
	}

	exists, err = catalog.FieldExists(ctx, cfg.PrimaryKey, cfg.Table)
	if err != nil {
		return fmt.Errorf("检查主键 '%s' 失败: %w", cfg.PrimaryKey, err)
	}
	if !exists {
		return port.ErrInvalidPrimaryKey
	}

	for _, expr := range cfg.Columns {
		ref := ParseColumn(expr, cfg.Table)
		if ref.Bare == "" {
			return port.NewColumnNotFoundError(ref.Bare, ref.Table)
		}
		exists, err = catalog.FieldExists(ctx, ref.Bare, ref.Table)
		if err != nil {
			return fmt.Errorf("检查列 '%s' 失败: %w", expr, err)
		}
		if !exists {
			return port.NewColumnNotFoundError(ref.Bare, ref.Table)
		}
	}
	return nil
}

// AnnotateRequest 校验请求列与配置列一致，并返回一个新的请求值：
// 索引为 column.Data 的请求列被填入对应的配置列表达式。原请求不被修改。
func AnnotateRequest(cfg domain.TableConfig, req domain.WireRequest) (domain.WireRequest, error) {
	if len(req.Columns) != len(cfg.Columns) {
		return req, port.ErrColumnCountMismatch
	}

	annotated := req
	annotated.Columns = make([]domain.WireColumn, len(req.Columns))
	copy(annotated.Columns, req.Columns)
	annotated.Order = append([]domain.WireOrder(nil), req.Order...)

	for _, col := range req.Columns {
		if col.Data < 0 || col.Data >= len(cfg.Columns) {
			return req, port.ErrMissingColumn
		}
		annotated.Columns[col.Data].Name = cfg.Columns[col.Data]
	}
	return annotated, nil
}

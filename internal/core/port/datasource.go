// Package port file: internal/core/port/datasource.go
package port

import (
	"context"
	"errors"
)

// ErrDataSourceNotFound 表示请求的数据源名称未被配置
var ErrDataSourceNotFound = errors.New("datasource not configured")

// SchemaCatalog 针对实时数据库 schema 回答 "表/字段是否存在"。
type SchemaCatalog interface {
	TableExists(ctx context.Context, table string) (bool, error)
	FieldExists(ctx context.Context, field, table string) (bool, error)
}

// LikeTerm 是搜索组中的单个子串匹配：Field 会被转换为文本后再做 LIKE。
type LikeTerm struct {
	Field string
	Match string
}

// ResultSet 是一次查询返回的列名与按列顺序排列的行值
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Value 按列名取出某一行的值，列不存在时返回 nil
func (rs *ResultSet) Value(row []any, column string) any {
	for i, name := range rs.Columns {
		if name == column && i < len(row) {
			return row[i]
		}
	}
	return nil
}

// QueryBuilder 是一个有状态的 SELECT 构造器。各子句阶段依次调用它累积条件，
// Fetch / Count 执行查询，Reset 清空累积状态以构造下一条查询。
type QueryBuilder interface {
	Reset()
	Select(columns ...string)
	Where(key string, value any)
	WhereRaw(predicate string)
	// OrLikeGroup 将所有 term 以 OR 组合为一个括号分组，再与已有条件 AND。
	OrLikeGroup(terms []LikeTerm)
	Join(table, condition, joinType string)
	GroupBy(column string)
	OrderBy(column, direction string)
	// Fetch 执行数据查询；limit <= 0 表示不分页。
	Fetch(ctx context.Context, table string, limit, offset int) (*ResultSet, error)
	// Count 返回当前条件 (含 GROUP BY) 下结果集的行数。
	Count(ctx context.Context, table string) (int64, error)
}

// DataSourceProvider 按名称提供 schema 目录与查询构造器
type DataSourceProvider interface {
	Catalog(name string) (SchemaCatalog, error)
	NewQueryBuilder(name string) (QueryBuilder, error)
	HealthCheck(ctx context.Context) error
	Names() []string
}

// Package sqldb file: internal/adapter/datasource/sqldb/builder.go
package sqldb

import (
	"GridAegis/internal/core/port"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var _ port.QueryBuilder = (*Builder)(nil)

const likeEscapeChar = "!"

var (
	// keyOperator 识别以比较运算符结尾的 where 键，例如 "age >"、"name !="
	keyOperator = regexp.MustCompile(`(?i)(\s*(<=|>=|<>|!=|=|<|>)|\s+(NOT\s+)?LIKE)\s*$`)

	likeEscaper = strings.NewReplacer(likeEscapeChar, likeEscapeChar+likeEscapeChar, "%", likeEscapeChar+"%", "_", likeEscapeChar+"_")

	allowedJoinTypes = map[string]struct{}{
		"LEFT": {}, "RIGHT": {}, "OUTER": {}, "INNER": {}, "LEFT OUTER": {}, "RIGHT OUTER": {},
	}
)

// Builder 是基于 squirrel 的 port.QueryBuilder 实现。
// 各子句先以 squirrel 片段累积，执行时再按方言生成 SQL 与占位符。
type Builder struct {
	db      *sql.DB
	dialect Dialect

	columns []string
	where   []sq.Sqlizer
	joins   []string
	groupBy []string
	orderBy []string
}

// NewBuilder 创建一个绑定到指定连接与方言的 Builder
func NewBuilder(db *sql.DB, dialect Dialect) *Builder {
	return &Builder{db: db, dialect: dialect}
}

// Reset 清空所有已累积的子句
func (b *Builder) Reset() {
	b.columns = nil
	b.where = nil
	b.joins = nil
	b.groupBy = nil
	b.orderBy = nil
}

func (b *Builder) Select(columns ...string) {
	b.columns = append(b.columns, columns...)
}

// Where 添加 `key = value` 条件；key 以运算符结尾时使用该运算符，value 为 nil 时生成 IS NULL
func (b *Builder) Where(key string, value any) {
	key = strings.TrimSpace(key)
	if keyOperator.MatchString(key) {
		b.where = append(b.where, sq.Expr(key+" ?", value))
		return
	}
	b.where = append(b.where, sq.Eq{key: value})
}

// WhereRaw 原样添加一段谓词
func (b *Builder) WhereRaw(predicate string) {
	b.where = append(b.where, sq.Expr(predicate))
}

// OrLikeGroup 把字段转为文本后做子串匹配，所有项以 OR 组合并整体加括号
func (b *Builder) OrLikeGroup(terms []port.LikeTerm) {
	if len(terms) == 0 {
		return
	}
	group := make(sq.Or, 0, len(terms))
	for _, t := range terms {
		pattern := "%" + likeEscaper.Replace(t.Match) + "%"
		expr := fmt.Sprintf("CAST(%s AS %s) %s ? ESCAPE '%s'", t.Field, b.dialect.castType, b.dialect.likeOp, likeEscapeChar)
		group = append(group, sq.Expr(expr, pattern))
	}
	b.where = append(b.where, group)
}

// Join 连接类型不在允许列表内时退化为普通 JOIN
func (b *Builder) Join(table, condition, joinType string) {
	joinType = strings.ToUpper(strings.TrimSpace(joinType))
	if _, ok := allowedJoinTypes[joinType]; ok {
		b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", joinType, table, condition))
		return
	}
	b.joins = append(b.joins, fmt.Sprintf("JOIN %s ON %s", table, condition))
}

func (b *Builder) GroupBy(column string) {
	b.groupBy = append(b.groupBy, column)
}

// OrderBy 方向只接受 ASC / DESC，其他值不附加方向
func (b *Builder) OrderBy(column, direction string) {
	direction = strings.ToUpper(strings.TrimSpace(direction))
	if direction == "ASC" || direction == "DESC" {
		b.orderBy = append(b.orderBy, column+" "+direction)
		return
	}
	b.orderBy = append(b.orderBy, column)
}

// applyClauses 把 WHERE / JOIN / GROUP BY 应用到 squirrel 构造器上
func (b *Builder) applyClauses(q sq.SelectBuilder) sq.SelectBuilder {
	for _, j := range b.joins {
		q = q.JoinClause(j)
	}
	for _, w := range b.where {
		q = q.Where(w)
	}
	if len(b.groupBy) > 0 {
		q = q.GroupBy(b.groupBy...)
	}
	return q
}

// SelectSQL 生成分页数据查询；limit <= 0 时不分页
func (b *Builder) SelectSQL(table string, limit, offset int) (string, []any, error) {
	columns := b.columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	q := b.applyClauses(sq.Select(strings.Join(columns, ", ")).From(table))
	if len(b.orderBy) > 0 {
		q = q.OrderBy(b.orderBy...)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
		if offset > 0 {
			q = q.Offset(uint64(offset))
		}
	}
	return b.finish(q)
}

// CountSQL 生成计数查询。存在 GROUP BY 时统计分组后的行数。
func (b *Builder) CountSQL(table string) (string, []any, error) {
	if len(b.groupBy) == 0 {
		return b.finish(b.applyClauses(sq.Select("COUNT(*)").From(table)))
	}
	inner := b.applyClauses(sq.Select("1").From(table))
	return b.finish(sq.Select("COUNT(*)").FromSelect(inner, "grid_rows"))
}

func (b *Builder) finish(q sq.SelectBuilder) (string, []any, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("构建SQL失败: %w", err)
	}
	query, err = b.dialect.placeholder.ReplacePlaceholders(query)
	if err != nil {
		return "", nil, fmt.Errorf("替换占位符失败: %w", err)
	}
	return query, args, nil
}

// Fetch 实现 port.QueryBuilder
func (b *Builder) Fetch(ctx context.Context, table string, limit, offset int) (*port.ResultSet, error) {
	query, args, err := b.SelectSQL(table, limit, offset)
	if err != nil {
		return nil, err
	}
	slog.Debug("执行数据查询", "sql", query, "args", args)

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询表 '%s' 失败: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("读取结果列失败: %w", err)
	}
	rs := &port.ResultSet{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		scanDest := make([]any, len(columns))
		scanDestPtrs := make([]any, len(columns))
		for i := range scanDest {
			scanDestPtrs[i] = &scanDest[i]
		}
		if err := rows.Scan(scanDestPtrs...); err != nil {
			return nil, fmt.Errorf("扫描表 '%s' 行数据失败: %w", table, err)
		}
		for i, v := range scanDest {
			if raw, ok := v.([]byte); ok {
				scanDest[i] = string(raw)
			}
		}
		rs.Rows = append(rs.Rows, scanDest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("迭代表 '%s' 行数据时发生错误: %w", table, err)
	}
	return rs, nil
}

// Count 实现 port.QueryBuilder
func (b *Builder) Count(ctx context.Context, table string) (int64, error) {
	query, args, err := b.CountSQL(table)
	if err != nil {
		return 0, err
	}
	slog.Debug("执行计数查询", "sql", query, "args", args)

	var n int64
	if err := b.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("统计表 '%s' 行数失败: %w", table, err)
	}
	return n, nil
}
